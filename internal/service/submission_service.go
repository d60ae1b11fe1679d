package service

import (
	"context"
	"encoding/json"
	"fmt"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/model"
	"gamehub_backend/internal/repository"
	"gamehub_backend/internal/util"
	"gamehub_backend/pkg/logger"
	"gamehub_backend/pkg/monitoring"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Action 公开操作的动作名，供授权收口点使用
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionSubmit Action = "submit"
	ActionDecide Action = "decide"
	ActionDelete Action = "delete"
)

type Decision string

const (
	DecisionApprove         Decision = "approve"
	DecisionReject          Decision = "reject"
	DecisionRequestRevision Decision = "request_revision"
)

// 各动作允许的起始状态（状态机转移表）
var allowedStates = map[Action][]model.SubmissionStatus{
	ActionUpdate: {model.StatusDraft, model.StatusRevision},
	ActionSubmit: {model.StatusDraft, model.StatusRevision},
	ActionDecide: {model.StatusPending},
	ActionDelete: {model.StatusDraft, model.StatusRejected},
}

type SubmissionService struct {
	Repo    *repository.SubmissionRepository
	Catalog CatalogPublisher

	mu    sync.RWMutex
	quota config.QuotaConfig

	// 可注入时钟，测试用
	Now func() time.Time
}

func NewSubmissionService(repo *repository.SubmissionRepository, catalog CatalogPublisher, quota config.QuotaConfig) *SubmissionService {
	return &SubmissionService{
		Repo:    repo,
		Catalog: catalog,
		quota:   quota,
		Now:     time.Now,
	}
}

// UpdateQuota 配置热更新回调
func (s *SubmissionService) UpdateQuota(quota config.QuotaConfig) {
	s.mu.Lock()
	s.quota = quota
	s.mu.Unlock()
}

func (s *SubmissionService) quotaLimits() config.QuotaConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quota
}

// can 授权收口点：所有公开操作的权限判断都走这里
func (s *SubmissionService) can(actor *util.Claims, action Action, sub *model.Submission) bool {
	if actor == nil {
		return false
	}
	switch action {
	case ActionRead:
		return actor.Role == model.Admin || sub.OwnerID == actor.UserID
	case ActionUpdate, ActionSubmit, ActionDelete:
		return actor.Role == model.Developer && sub.OwnerID == actor.UserID
	case ActionDecide:
		return actor.Role == model.Admin
	}
	return false
}

func statusAllows(action Action, status model.SubmissionStatus) bool {
	for _, st := range allowedStates[action] {
		if st == status {
			return true
		}
	}
	return false
}

// checkQuota 创建前的限额检查。读取-判断-写入并非同一事务，
// 同一开发者并发创建时限额是尽力而为的约束（见仓库层注释）。
func (s *SubmissionService) checkQuota(ownerID uint) error {
	limits := s.quotaLimits()

	drafts, err := s.Repo.CountDraftsByOwner(ownerID)
	if err != nil {
		return fmt.Errorf("quota check: %w", err)
	}
	if drafts >= int64(limits.MaxDrafts) {
		return util.ErrDraftLimit
	}

	now := s.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	created, err := s.Repo.CountCreatedBetween(ownerID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("quota check: %w", err)
	}
	if created >= int64(limits.DailyCreates) {
		return util.ErrDailyCreateLimit
	}
	return nil
}

// Create 新建草稿。actor 必须是已通过资质审核的开发者。
func (s *SubmissionService) Create(actor *util.Claims, payload model.SubmissionPayload) (*model.Submission, error) {
	if actor == nil || actor.Role != model.Developer {
		return nil, util.ErrPermissionDenied
	}
	if !actor.DeveloperApproved {
		return nil, util.ErrNotApprovedDeveloper
	}

	if err := s.checkQuota(actor.UserID); err != nil {
		return nil, err
	}

	payload.SchemaVersion = model.PayloadSchemaVersion
	payload.Metadata.ValidationErrors = nil
	payload.Metadata.CompletionPercentage = CompletionPercentage(&payload)

	sub := &model.Submission{
		OwnerID: actor.UserID,
		Status:  model.StatusDraft,
		Payload: payload,
	}
	if err := s.Repo.Create(sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	monitoring.SubmissionsCreated.Inc()
	logger.Log.Info("submission created",
		zap.String("id", sub.ID),
		zap.Uint("owner_id", sub.OwnerID))
	return sub, nil
}

func (s *SubmissionService) Get(actor *util.Claims, id string) (*model.Submission, error) {
	sub, err := s.Repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if !s.can(actor, ActionRead, sub) {
		return nil, util.ErrPermissionDenied
	}
	return sub, nil
}

// Update 浅合并补丁写入。仅 draft/revision 状态下允许，且只有所有者能改。
// status/owner_id/published_ref 不经此路径变更。
func (s *SubmissionService) Update(actor *util.Claims, id string, patch *model.PayloadPatch) (*model.Submission, error) {
	sub, err := s.Repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if !s.can(actor, ActionUpdate, sub) {
		return nil, util.ErrPermissionDenied
	}
	if !statusAllows(ActionUpdate, sub.Status) {
		return nil, util.ErrInvalidState
	}

	patch.Apply(&sub.Payload)
	sub.Payload.SchemaVersion = model.PayloadSchemaVersion
	sub.Payload.Metadata.CompletionPercentage = CompletionPercentage(&sub.Payload)

	if err := s.Repo.UpdatePayload(sub.ID, sub.Payload); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	return sub, nil
}

// SubmitForReview 所有者将草稿/待修订稿提交审核
func (s *SubmissionService) SubmitForReview(actor *util.Claims, id string) (*model.Submission, error) {
	sub, err := s.Repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if !s.can(actor, ActionSubmit, sub) {
		return nil, util.ErrPermissionDenied
	}
	if !statusAllows(ActionSubmit, sub.Status) {
		return nil, util.ErrInvalidState
	}

	if errs := ValidateForSubmit(&sub.Payload); len(errs) > 0 {
		// 校验失败的清单随文档落库，前端引导补全
		sub.Payload.Metadata.ValidationErrors = errs
		if err := s.Repo.UpdatePayload(sub.ID, sub.Payload); err != nil {
			return nil, fmt.Errorf("record validation errors: %w", err)
		}
		return nil, util.ErrPayloadIncomplete
	}

	sub.Payload.Metadata.ValidationErrors = nil
	sub.Payload.Metadata.CompletionPercentage = CompletionPercentage(&sub.Payload)

	now := s.Now()
	if err := s.Repo.MarkSubmitted(sub.ID, sub.Status, sub.Payload, now); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrInvalidState
		}
		return nil, fmt.Errorf("submit for review: %w", err)
	}

	sub.Status = model.StatusPending
	sub.SubmittedAt = &now
	logger.Log.Info("submission sent for review",
		zap.String("id", sub.ID),
		zap.Uint("owner_id", sub.OwnerID))
	return sub, nil
}

// Decide 管理员审批：approve/reject/request_revision
func (s *SubmissionService) Decide(actor *util.Claims, id string, decision Decision, notes string) (*model.Submission, error) {
	sub, err := s.Repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	if !s.can(actor, ActionDecide, sub) {
		return nil, util.ErrPermissionDenied
	}
	if !statusAllows(ActionDecide, sub.Status) {
		return nil, util.ErrInvalidState
	}

	now := s.Now()
	var to model.SubmissionStatus
	var publishedRef *string
	var publishedAt *time.Time

	switch decision {
	case DecisionApprove:
		ref, err := s.Catalog.Publish(context.Background(), sub)
		if err != nil {
			return nil, fmt.Errorf("catalog publish: %w", err)
		}
		to = model.StatusPublished
		publishedRef = &ref
		publishedAt = &now
	case DecisionReject:
		to = model.StatusRejected
	case DecisionRequestRevision:
		to = model.StatusRevision
	default:
		return nil, fmt.Errorf("unknown decision %q", decision)
	}

	if err := s.Repo.ApplyDecision(sub.ID, to, actor.UserID, notes, publishedRef, publishedAt, now); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrInvalidState
		}
		return nil, fmt.Errorf("apply decision: %w", err)
	}

	sub.Status = to
	sub.AdminID = &actor.UserID
	sub.AdminNotes = notes
	sub.AdminDecidedAt = &now
	sub.PublishedRef = publishedRef
	sub.PublishedAt = publishedAt

	s.writeDecisionLog(sub, actor.UserID, string(decision), notes)
	monitoring.ModerationDecisions.WithLabelValues(string(decision)).Inc()
	logger.Log.Info("moderation decision applied",
		zap.String("id", sub.ID),
		zap.String("decision", string(decision)),
		zap.Uint("admin_id", actor.UserID))
	return sub, nil
}

// writeDecisionLog 审计记录与主行写入分离，失败不影响决策本身
func (s *SubmissionService) writeDecisionLog(sub *model.Submission, adminID uint, decision, notes string) {
	snapshot, err := json.Marshal(sub.Payload)
	if err != nil {
		snapshot = []byte("{}")
	}
	entry := &model.DecisionLog{
		SubmissionID:    sub.ID,
		AdminID:         adminID,
		Decision:        decision,
		Notes:           notes,
		PayloadSnapshot: datatypes.JSON(snapshot),
	}
	if err := s.Repo.CreateDecisionLog(entry); err != nil {
		logger.Log.Error("write decision log", zap.Error(err), zap.String("submission_id", sub.ID))
	}
}

// Delete 所有者删除草稿或已被驳回的投稿
func (s *SubmissionService) Delete(actor *util.Claims, id string) error {
	sub, err := s.Repo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return util.ErrSubmissionNotFound
		}
		return err
	}
	if !s.can(actor, ActionDelete, sub) {
		return util.ErrPermissionDenied
	}
	if !statusAllows(ActionDelete, sub.Status) {
		return util.ErrInvalidState
	}

	if err := s.Repo.Delete(sub.ID); err != nil {
		if repository.IsNotFound(err) {
			return util.ErrSubmissionNotFound
		}
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}

func (s *SubmissionService) ListByOwner(actor *util.Claims, status model.SubmissionStatus, limit int) ([]model.Submission, error) {
	if actor == nil {
		return nil, util.ErrPermissionDenied
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByOwner(actor.UserID, status, limit)
}
