package service

import (
	"context"
	"encoding/json"
	"fmt"
	"gamehub_backend/internal/model"
	"gamehub_backend/internal/repository"
	"gamehub_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const ownerInfoCacheTTL = 10 * time.Minute

// ModerationService 审核队列读侧：排序 + 开发者信息补全，不做任何变更
type ModerationService struct {
	Repo     *repository.SubmissionRepository
	UserRepo *repository.UserRepository
	RDB      *redis.Client
}

func NewModerationService(repo *repository.SubmissionRepository, userRepo *repository.UserRepository, rdb *redis.Client) *ModerationService {
	return &ModerationService{
		Repo:     repo,
		UserRepo: userRepo,
		RDB:      rdb,
	}
}

// ListQueue 无状态过滤时 pending 置顶，其余按提交/更新时间倒序
func (s *ModerationService) ListQueue(status model.SubmissionStatus, limit, offset int) ([]model.QueueItem, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	subs, total, err := s.Repo.ListForModeration(status, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.QueueItem, 0, len(subs))
	for _, sub := range subs {
		items = append(items, model.QueueItem{
			Submission: sub,
			Owner:      s.ownerInfo(sub.OwnerID),
		})
	}
	return items, total, nil
}

// ownerInfo 读取开发者展示信息，redis 旁路缓存，查不到时返回空值不阻断队列
func (s *ModerationService) ownerInfo(ownerID uint) model.OwnerInfo {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("moderation:owner:%d", ownerID)

	if s.RDB != nil {
		if raw, err := s.RDB.Get(ctx, cacheKey).Result(); err == nil {
			var info model.OwnerInfo
			if json.Unmarshal([]byte(raw), &info) == nil {
				return info
			}
		}
	}

	info, err := s.UserRepo.DisplayInfo(ownerID)
	if err != nil {
		logger.Log.Warn("owner display info lookup failed",
			zap.Uint("owner_id", ownerID), zap.Error(err))
		return model.OwnerInfo{}
	}

	if s.RDB != nil {
		if raw, err := json.Marshal(info); err == nil {
			s.RDB.Set(ctx, cacheKey, raw, ownerInfoCacheTTL)
		}
	}
	return info
}
