package service

import (
	"gamehub_backend/internal/model"
	"strings"
)

// 完成度权重表，合计100
var completionWeights = []struct {
	weight int
	filled func(p *model.SubmissionPayload) bool
}{
	{20, func(p *model.SubmissionPayload) bool { return strings.TrimSpace(p.Name) != "" }},
	{15, func(p *model.SubmissionPayload) bool { return strings.TrimSpace(p.Description) != "" }},
	{10, func(p *model.SubmissionPayload) bool { return len(p.Genres) > 0 }},
	{15, func(p *model.SubmissionPayload) bool { return strings.TrimSpace(p.Covers.Horizontal) != "" }},
	{15, func(p *model.SubmissionPayload) bool { return strings.TrimSpace(p.Covers.Vertical) != "" }},
	{10, func(p *model.SubmissionPayload) bool { return len(p.Screenshots) > 0 }},
	{10, func(p *model.SubmissionPayload) bool { return len(p.Platforms) > 0 }},
	{5, func(p *model.SubmissionPayload) bool { return len(p.Developers) > 0 }},
}

// CompletionPercentage 按权重累计文档完成度，钳制在 [0,100]
func CompletionPercentage(p *model.SubmissionPayload) int {
	score := 0
	for _, w := range completionWeights {
		if w.filled(p) {
			score += w.weight
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ValidateForSubmit 提交审核前的必填项检查，返回人类可读的缺失清单
func ValidateForSubmit(p *model.SubmissionPayload) []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		errs = append(errs, "description is required")
	}
	if len(p.Genres) == 0 {
		errs = append(errs, "at least one genre is required")
	}
	if len(p.Platforms) == 0 {
		errs = append(errs, "at least one platform is required")
	}
	if strings.TrimSpace(p.Covers.Horizontal) == "" {
		errs = append(errs, "horizontal cover is required")
	}
	if strings.TrimSpace(p.Covers.Vertical) == "" {
		errs = append(errs, "vertical cover is required")
	}
	if len(p.Screenshots) == 0 {
		errs = append(errs, "at least one screenshot is required")
	}
	return errs
}
