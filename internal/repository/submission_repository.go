package repository

import (
	"errors"
	"gamehub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(sub *model.Submission) error {
	return r.DB.Create(sub).Error
}

func (r *SubmissionRepository) FindByID(id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.DB.Where("id = ?", id).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdatePayload 单行原子写：仅覆盖 payload 列（updated_at 由 gorm 刷新）
func (r *SubmissionRepository) UpdatePayload(id string, payload model.SubmissionPayload) error {
	return r.DB.Model(&model.Submission{}).
		Where("id = ?", id).
		Select("payload").
		Updates(&model.Submission{Payload: payload}).Error
}

// MarkSubmitted 以 status 条件做 compare-and-set，避免并发下的重复提交
func (r *SubmissionRepository) MarkSubmitted(id string, from model.SubmissionStatus, payload model.SubmissionPayload, now time.Time) error {
	res := r.DB.Model(&model.Submission{}).
		Where("id = ? AND status = ?", id, from).
		Select("status", "submitted_at", "payload").
		Updates(&model.Submission{
			Status:      model.StatusPending,
			SubmittedAt: &now,
			Payload:     payload,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ApplyDecision 审批结果落库，同样带 status=pending 的 CAS 条件
func (r *SubmissionRepository) ApplyDecision(id string, to model.SubmissionStatus, adminID uint, notes string, publishedRef *string, publishedAt *time.Time, decidedAt time.Time) error {
	res := r.DB.Model(&model.Submission{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Select("status", "admin_id", "admin_notes", "admin_decided_at", "published_ref", "published_at").
		Updates(&model.Submission{
			Status:         to,
			AdminID:        &adminID,
			AdminNotes:     notes,
			AdminDecidedAt: &decidedAt,
			PublishedRef:   publishedRef,
			PublishedAt:    publishedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SubmissionRepository) Delete(id string) error {
	res := r.DB.Where("id = ?", id).Delete(&model.Submission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SubmissionRepository) ListByOwner(ownerID uint, status model.SubmissionStatus, limit int) ([]model.Submission, error) {
	var subs []model.Submission
	query := r.DB.Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("updated_at DESC").Limit(limit).Find(&subs).Error
	return subs, err
}

// CountDraftsByOwner 创建限额检查：当前草稿数
func (r *SubmissionRepository) CountDraftsByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("owner_id = ? AND status = ?", ownerID, model.StatusDraft).
		Count(&count).Error
	return count, err
}

// CountCreatedBetween 创建限额检查：当日已创建数（不分状态）
func (r *SubmissionRepository) CountCreatedBetween(ownerID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("owner_id = ? AND created_at >= ? AND created_at < ?", ownerID, from, to).
		Count(&count).Error
	return count, err
}

// ListForModeration 审核队列：无状态过滤时 pending 置顶，再按提交时间/更新时间倒序
func (r *SubmissionRepository) ListForModeration(status model.SubmissionStatus, limit, offset int) ([]model.Submission, int64, error) {
	var subs []model.Submission
	var total int64

	query := r.DB.Model(&model.Submission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if status == "" {
		listQuery = listQuery.Order("(status = 'pending') DESC")
	}
	err := listQuery.
		Order("submitted_at DESC").
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&subs).Error
	return subs, total, err
}

// DeleteStaleDrafts 保留策略批量删除：WHERE 条件天然幂等，空跑无副作用
func (r *SubmissionRepository) DeleteStaleDrafts(cutoff time.Time) (int64, error) {
	res := r.DB.Where("status = ? AND created_at < ?", model.StatusDraft, cutoff).
		Delete(&model.Submission{})
	return res.RowsAffected, res.Error
}

func (r *SubmissionRepository) DeleteExpiredRejected(cutoff time.Time) (int64, error) {
	res := r.DB.Where("status = ? AND admin_decided_at IS NOT NULL AND admin_decided_at < ?", model.StatusRejected, cutoff).
		Delete(&model.Submission{})
	return res.RowsAffected, res.Error
}

func (r *SubmissionRepository) CreateDecisionLog(entry *model.DecisionLog) error {
	return r.DB.Create(entry).Error
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
