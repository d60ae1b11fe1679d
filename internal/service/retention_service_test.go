package service

import (
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/model"
	"gamehub_backend/internal/repository"
	"testing"
	"time"

	"gorm.io/gorm"
)

func seedSubmission(t *testing.T, db *gorm.DB, owner uint, status model.SubmissionStatus, createdAt time.Time, decidedAt *time.Time) string {
	t.Helper()

	sub := &model.Submission{
		OwnerID:        owner,
		Status:         status,
		AdminDecidedAt: decidedAt,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	// 回写 created_at 以模拟历史数据
	if err := db.Model(&model.Submission{}).Where("id = ?", sub.ID).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("backdate created_at: %v", err)
	}
	return sub.ID
}

func TestSweepRemovesStaleDraftsOnly(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewSubmissionRepository(db)
	svc := NewRetentionService(repo, config.RetentionConfig{DraftDays: 30, RejectedDays: 90})

	now := time.Now()
	stale := seedSubmission(t, db, 42, model.StatusDraft, now.AddDate(0, 0, -31), nil)
	fresh := seedSubmission(t, db, 42, model.StatusDraft, now.AddDate(0, 0, -29), nil)

	result, err := svc.RunSweep()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.DraftsRemoved != 1 {
		t.Fatalf("drafts_removed = %d, want 1", result.DraftsRemoved)
	}

	if _, err := repo.FindByID(stale); !repository.IsNotFound(err) {
		t.Fatalf("stale draft still present, err = %v", err)
	}
	if _, err := repo.FindByID(fresh); err != nil {
		t.Fatalf("fresh draft removed: %v", err)
	}
}

func TestSweepRemovesExpiredRejected(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewSubmissionRepository(db)
	svc := NewRetentionService(repo, config.RetentionConfig{DraftDays: 30, RejectedDays: 90})

	now := time.Now()
	oldDecision := now.AddDate(0, 0, -91)
	recentDecision := now.AddDate(0, 0, -89)

	expired := seedSubmission(t, db, 42, model.StatusRejected, now.AddDate(0, 0, -120), &oldDecision)
	kept := seedSubmission(t, db, 42, model.StatusRejected, now.AddDate(0, 0, -120), &recentDecision)

	result, err := svc.RunSweep()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.RejectedRemoved != 1 {
		t.Fatalf("rejected_removed = %d, want 1", result.RejectedRemoved)
	}

	if _, err := repo.FindByID(expired); !repository.IsNotFound(err) {
		t.Fatalf("expired rejected still present, err = %v", err)
	}
	if _, err := repo.FindByID(kept); err != nil {
		t.Fatalf("recent rejected removed: %v", err)
	}
}

// published 行不受清理影响；重复执行为空跑
func TestSweepSparesPublishedAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewSubmissionRepository(db)
	svc := NewRetentionService(repo, config.RetentionConfig{DraftDays: 30, RejectedDays: 90})

	now := time.Now()
	decided := now.AddDate(0, 0, -200)
	published := seedSubmission(t, db, 42, model.StatusPublished, now.AddDate(0, 0, -400), &decided)
	seedSubmission(t, db, 42, model.StatusDraft, now.AddDate(0, 0, -31), nil)

	if _, err := svc.RunSweep(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if _, err := repo.FindByID(published); err != nil {
		t.Fatalf("published row swept: %v", err)
	}

	again, err := svc.RunSweep()
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if again.DraftsRemoved != 0 || again.RejectedRemoved != 0 {
		t.Fatalf("second sweep removed %+v, want no-op", again)
	}
}
