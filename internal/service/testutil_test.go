package service

import (
	"context"
	"fmt"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/model"
	"gamehub_backend/internal/repository"
	"gamehub_backend/internal/util"
	"gamehub_backend/pkg/logger"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type catalogStub struct {
	published int
	err       error
}

func (c *catalogStub) Publish(ctx context.Context, sub *model.Submission) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.published++
	return fmt.Sprintf("catalog-entry-%d", c.published), nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger.Log = zap.NewNop()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Submission{}, &model.DecisionLog{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, quota config.QuotaConfig) (*SubmissionService, *catalogStub, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	catalog := &catalogStub{}
	svc := NewSubmissionService(repository.NewSubmissionRepository(db), catalog, quota)
	return svc, catalog, db
}

func devClaims(id uint) *util.Claims {
	return &util.Claims{UserID: id, Role: model.Developer, DeveloperApproved: true}
}

func adminClaims(id uint) *util.Claims {
	return &util.Claims{UserID: id, Role: model.Admin}
}

// completePayload 提交审核可通过校验的文档
func completePayload() model.SubmissionPayload {
	return model.SubmissionPayload{
		Name:        "Starlight Drifter",
		Description: "A cozy space exploration game.",
		Genres:      []string{"adventure"},
		Platforms:   []string{"pc"},
		Developers:  []string{"Drifter Studio"},
		Covers:      model.Covers{Horizontal: "ref-h", Vertical: "ref-v"},
		Screenshots: []string{"ref-s1"},
	}
}
