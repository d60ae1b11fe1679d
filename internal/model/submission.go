package model

import (
	"time"
)

type SubmissionStatus string

const (
	StatusDraft     SubmissionStatus = "draft"
	StatusPending   SubmissionStatus = "pending"
	StatusPublished SubmissionStatus = "published"
	StatusRejected  SubmissionStatus = "rejected"
	StatusRevision  SubmissionStatus = "revision"
)

// PayloadSchemaVersion 当前投稿文档结构版本，存库便于后续演进
const PayloadSchemaVersion = 1

// Covers 横竖版封面，均为媒体服务发放的引用ID
type Covers struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
}

type ExternalLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// PayloadMetadata 由服务端维护的派生数据，不接受客户端直接写入完成度
type PayloadMetadata struct {
	CompletionPercentage int      `json:"completionPercentage"`
	LastStepCompleted    int      `json:"lastStepCompleted"`
	ValidationErrors     []string `json:"validationErrors,omitempty"`
}

// SubmissionPayload 游戏候选条目的结构化文档，整体序列化为JSON列
// swagger:model SubmissionPayload
type SubmissionPayload struct {
	SchemaVersion int             `json:"schemaVersion"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Genres        []string        `json:"genres"`
	Platforms     []string        `json:"platforms"`
	Modes         []string        `json:"modes"`
	Developers    []string        `json:"developers"`
	Publishers    []string        `json:"publishers"`
	ReleaseDate   string          `json:"releaseDate"`
	Covers        Covers          `json:"covers"`
	Screenshots   []string        `json:"screenshots"`
	TrailerLink   string          `json:"trailerLink"`
	ExternalLinks []ExternalLink  `json:"externalLinks"`
	Metadata      PayloadMetadata `json:"metadata"`
}

// PayloadPatch 浅合并补丁：出现的顶层键整体替换，未出现的保持不变。
// covers 等嵌套对象按键整体覆盖，不做逐字段深合并。
// swagger:model PayloadPatch
type PayloadPatch struct {
	Name              *string         `json:"name"`
	Description       *string         `json:"description"`
	Genres            *[]string       `json:"genres"`
	Platforms         *[]string       `json:"platforms"`
	Modes             *[]string       `json:"modes"`
	Developers        *[]string       `json:"developers"`
	Publishers        *[]string       `json:"publishers"`
	ReleaseDate       *string         `json:"releaseDate"`
	Covers            *Covers         `json:"covers"`
	Screenshots       *[]string       `json:"screenshots"`
	TrailerLink       *string         `json:"trailerLink"`
	ExternalLinks     *[]ExternalLink `json:"externalLinks"`
	LastStepCompleted *int            `json:"lastStepCompleted"`
}

// Apply 将补丁浅合并到文档上
func (p *PayloadPatch) Apply(doc *SubmissionPayload) {
	if p.Name != nil {
		doc.Name = *p.Name
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	if p.Genres != nil {
		doc.Genres = *p.Genres
	}
	if p.Platforms != nil {
		doc.Platforms = *p.Platforms
	}
	if p.Modes != nil {
		doc.Modes = *p.Modes
	}
	if p.Developers != nil {
		doc.Developers = *p.Developers
	}
	if p.Publishers != nil {
		doc.Publishers = *p.Publishers
	}
	if p.ReleaseDate != nil {
		doc.ReleaseDate = *p.ReleaseDate
	}
	if p.Covers != nil {
		doc.Covers = *p.Covers
	}
	if p.Screenshots != nil {
		doc.Screenshots = *p.Screenshots
	}
	if p.TrailerLink != nil {
		doc.TrailerLink = *p.TrailerLink
	}
	if p.ExternalLinks != nil {
		doc.ExternalLinks = *p.ExternalLinks
	}
	if p.LastStepCompleted != nil {
		doc.Metadata.LastStepCompleted = *p.LastStepCompleted
	}
}

// Submission 开发者提交的候选游戏条目
// swagger:model Submission
type Submission struct {
	UUIDBase
	OwnerID uint              `gorm:"index;not null" json:"ownerId"`
	Status  SubmissionStatus  `gorm:"type:varchar(20);index;default:'draft'" json:"status"`
	Payload SubmissionPayload `gorm:"type:json;serializer:json" json:"payload"`

	// 审批通过时写入一次，此后不再变更
	PublishedRef *string `gorm:"size:64" json:"publishedRef,omitempty"`

	AdminID        *uint      `gorm:"index" json:"adminId,omitempty"`
	AdminNotes     string     `gorm:"type:text" json:"adminNotes,omitempty"`
	AdminDecidedAt *time.Time `json:"adminDecidedAt,omitempty"`

	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// QueueItem 审核队列条目，附带开发者展示信息
// swagger:model QueueItem
type QueueItem struct {
	Submission
	Owner OwnerInfo `json:"owner"`
}
