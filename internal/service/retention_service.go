package service

import (
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/repository"
	"gamehub_backend/pkg/logger"
	"gamehub_backend/pkg/monitoring"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepResult 单次保留策略清理的结果
// swagger:model SweepResult
type SweepResult struct {
	DraftsRemoved   int64 `json:"draftsRemoved"`
	RejectedRemoved int64 `json:"rejectedRemoved"`
}

// RetentionService 定时清理过期草稿与已驳回投稿
type RetentionService struct {
	Repo *repository.SubmissionRepository

	mu        sync.RWMutex
	retention config.RetentionConfig

	Now func() time.Time
}

func NewRetentionService(repo *repository.SubmissionRepository, retention config.RetentionConfig) *RetentionService {
	return &RetentionService{
		Repo:      repo,
		retention: retention,
		Now:       time.Now,
	}
}

// UpdateRetention 配置热更新回调
func (s *RetentionService) UpdateRetention(retention config.RetentionConfig) {
	s.mu.Lock()
	s.retention = retention
	s.mu.Unlock()
}

func (s *RetentionService) policy() config.RetentionConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retention
}

// RunSweep 执行两类幂等批量删除；没有符合条件的行时为空跑
func (s *RetentionService) RunSweep() (SweepResult, error) {
	policy := s.policy()
	now := s.Now()

	var result SweepResult

	draftCutoff := now.AddDate(0, 0, -policy.DraftDays)
	drafts, err := s.Repo.DeleteStaleDrafts(draftCutoff)
	if err != nil {
		return result, err
	}
	result.DraftsRemoved = drafts

	rejectedCutoff := now.AddDate(0, 0, -policy.RejectedDays)
	rejected, err := s.Repo.DeleteExpiredRejected(rejectedCutoff)
	if err != nil {
		return result, err
	}
	result.RejectedRemoved = rejected

	if drafts > 0 {
		monitoring.SweptSubmissions.WithLabelValues("draft").Add(float64(drafts))
	}
	if rejected > 0 {
		monitoring.SweptSubmissions.WithLabelValues("rejected").Add(float64(rejected))
	}

	logger.Log.Info("retention sweep completed",
		zap.Int64("drafts_removed", drafts),
		zap.Int64("rejected_removed", rejected))
	return result, nil
}
