package service

import (
	"errors"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/model"
	"gamehub_backend/internal/util"
	"testing"
)

func mustCreate(t *testing.T, svc *SubmissionService, owner uint, payload model.SubmissionPayload) *model.Submission {
	t.Helper()
	sub, err := svc.Create(devClaims(owner), payload)
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return sub
}

func mustSubmit(t *testing.T, svc *SubmissionService, owner uint, id string) *model.Submission {
	t.Helper()
	sub, err := svc.SubmitForReview(devClaims(owner), id)
	if err != nil {
		t.Fatalf("submit for review: %v", err)
	}
	return sub
}

func TestCreateRequiresApprovedDeveloper(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	claims := devClaims(42)
	claims.DeveloperApproved = false
	if _, err := svc.Create(claims, model.SubmissionPayload{}); !errors.Is(err, util.ErrNotApprovedDeveloper) {
		t.Fatalf("err = %v, want ErrNotApprovedDeveloper", err)
	}

	if _, err := svc.Create(adminClaims(7), model.SubmissionPayload{}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied for admin actor", err)
	}
}

// 顺序创建时草稿数不会超过3；第4次返回限额错误
func TestDraftQuota(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	for i := 0; i < 3; i++ {
		mustCreate(t, svc, 42, model.SubmissionPayload{})
	}

	if _, err := svc.Create(devClaims(42), model.SubmissionPayload{}); !errors.Is(err, util.ErrDraftLimit) {
		t.Fatalf("err = %v, want ErrDraftLimit", err)
	}

	drafts, err := svc.Repo.CountDraftsByOwner(42)
	if err != nil {
		t.Fatalf("count drafts: %v", err)
	}
	if drafts != 3 {
		t.Fatalf("draft count = %d, want 3", drafts)
	}

	// 其他开发者不受影响
	mustCreate(t, svc, 43, model.SubmissionPayload{})
}

func TestDailyCreateQuota(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 10, DailyCreates: 1})

	mustCreate(t, svc, 42, model.SubmissionPayload{})

	if _, err := svc.Create(devClaims(42), model.SubmissionPayload{}); !errors.Is(err, util.ErrDailyCreateLimit) {
		t.Fatalf("err = %v, want ErrDailyCreateLimit", err)
	}
}

// 补丁只替换出现的顶层键，其余键保持原值
func TestUpdateShallowMerge(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())

	genres := []string{"rpg", "strategy"}
	if _, err := svc.Update(devClaims(42), sub.ID, &model.PayloadPatch{Genres: &genres}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.Get(devClaims(42), sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if len(got.Payload.Genres) != 2 || got.Payload.Genres[0] != "rpg" {
		t.Fatalf("genres = %v, want %v", got.Payload.Genres, genres)
	}
	if got.Payload.Name != "Starlight Drifter" {
		t.Fatalf("name changed to %q, want untouched", got.Payload.Name)
	}
	if got.Payload.Covers.Horizontal != "ref-h" {
		t.Fatalf("covers.horizontal changed to %q, want untouched", got.Payload.Covers.Horizontal)
	}
}

// covers 整体覆盖，不做逐字段深合并
func TestUpdateReplacesCoversWholesale(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())

	covers := model.Covers{Horizontal: "ref-h2"}
	if _, err := svc.Update(devClaims(42), sub.ID, &model.PayloadPatch{Covers: &covers}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := svc.Get(devClaims(42), sub.ID)
	if got.Payload.Covers.Vertical != "" {
		t.Fatalf("covers.vertical = %q, want cleared by wholesale replace", got.Payload.Covers.Vertical)
	}
}

func TestUpdateNeverChangesStatusOwnerOrPublishedRef(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())

	name := "Renamed"
	if _, err := svc.Update(devClaims(42), sub.ID, &model.PayloadPatch{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := svc.Get(devClaims(42), sub.ID)
	if got.Status != model.StatusDraft {
		t.Fatalf("status = %s, want draft", got.Status)
	}
	if got.OwnerID != 42 {
		t.Fatalf("owner = %d, want 42", got.OwnerID)
	}
	if got.PublishedRef != nil {
		t.Fatalf("published_ref = %v, want nil", *got.PublishedRef)
	}
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())

	name := "Hijacked"
	if _, err := svc.Update(devClaims(99), sub.ID, &model.PayloadPatch{Name: &name}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestUpdateRecomputesCompletion(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, model.SubmissionPayload{})
	if sub.Payload.Metadata.CompletionPercentage != 0 {
		t.Fatalf("initial completion = %d, want 0", sub.Payload.Metadata.CompletionPercentage)
	}

	name := "Foo"
	updated, err := svc.Update(devClaims(42), sub.ID, &model.PayloadPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Payload.Metadata.CompletionPercentage != 20 {
		t.Fatalf("completion = %d, want 20", updated.Payload.Metadata.CompletionPercentage)
	}
}

func TestSubmitOnlyFromDraftOrRevision(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())
	mustSubmit(t, svc, 42, sub.ID)

	// 已在 pending，再次提交非法
	if _, err := svc.SubmitForReview(devClaims(42), sub.ID); !errors.Is(err, util.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}

	got, _ := svc.Get(devClaims(42), sub.ID)
	if got.Status != model.StatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
	if got.SubmittedAt == nil {
		t.Fatal("submitted_at not set")
	}
}

func TestSubmitValidationFailureRecorded(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, model.SubmissionPayload{Name: "Foo"})

	if _, err := svc.SubmitForReview(devClaims(42), sub.ID); !errors.Is(err, util.ErrPayloadIncomplete) {
		t.Fatalf("err = %v, want ErrPayloadIncomplete", err)
	}

	got, _ := svc.Get(devClaims(42), sub.ID)
	if got.Status != model.StatusDraft {
		t.Fatalf("status = %s, want draft after failed submit", got.Status)
	}
	if len(got.Payload.Metadata.ValidationErrors) == 0 {
		t.Fatal("validation errors not persisted")
	}
}

func TestApproveIsTerminal(t *testing.T) {
	svc, catalog, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())
	mustSubmit(t, svc, 42, sub.ID)

	decided, err := svc.Decide(adminClaims(7), sub.ID, DecisionApprove, "looks good")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if decided.Status != model.StatusPublished {
		t.Fatalf("status = %s, want published", decided.Status)
	}
	if decided.PublishedRef == nil || *decided.PublishedRef == "" {
		t.Fatal("published_ref not set on approval")
	}
	if decided.PublishedAt == nil || decided.AdminDecidedAt == nil {
		t.Fatal("published_at / admin_decided_at not set")
	}
	if catalog.published != 1 {
		t.Fatalf("catalog publishes = %d, want 1", catalog.published)
	}

	// published 是终态：任何后续编辑/删除都失败
	name := "Too Late"
	if _, err := svc.Update(devClaims(42), sub.ID, &model.PayloadPatch{Name: &name}); !errors.Is(err, util.ErrInvalidState) {
		t.Fatalf("update after approve: err = %v, want ErrInvalidState", err)
	}
	if err := svc.Delete(devClaims(42), sub.ID); !errors.Is(err, util.ErrInvalidState) {
		t.Fatalf("delete after approve: err = %v, want ErrInvalidState", err)
	}
	if _, err := svc.SubmitForReview(devClaims(42), sub.ID); !errors.Is(err, util.ErrInvalidState) {
		t.Fatalf("submit after approve: err = %v, want ErrInvalidState", err)
	}
}

func TestRejectThenOwnerDelete(t *testing.T) {
	svc, _, db := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())
	mustSubmit(t, svc, 42, sub.ID)

	decided, err := svc.Decide(adminClaims(7), sub.ID, DecisionReject, "needs more screenshots")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if decided.Status != model.StatusRejected {
		t.Fatalf("status = %s, want rejected", decided.Status)
	}
	if decided.AdminNotes != "needs more screenshots" {
		t.Fatalf("admin_notes = %q", decided.AdminNotes)
	}
	if decided.AdminDecidedAt == nil {
		t.Fatal("admin_decided_at not set")
	}
	if decided.PublishedRef != nil {
		t.Fatal("published_ref must stay nil on reject")
	}

	// 审计记录已写入
	var logs int64
	db.Model(&model.DecisionLog{}).Where("submission_id = ?", sub.ID).Count(&logs)
	if logs != 1 {
		t.Fatalf("decision logs = %d, want 1", logs)
	}

	if err := svc.Delete(devClaims(42), sub.ID); err != nil {
		t.Fatalf("delete rejected submission: %v", err)
	}
	if _, err := svc.Get(devClaims(42), sub.ID); !errors.Is(err, util.ErrSubmissionNotFound) {
		t.Fatalf("get after delete: err = %v, want ErrSubmissionNotFound", err)
	}
}

func TestRequestRevisionAllowsResubmit(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())
	mustSubmit(t, svc, 42, sub.ID)

	if _, err := svc.Decide(adminClaims(7), sub.ID, DecisionRequestRevision, "trim the description"); err != nil {
		t.Fatalf("request revision: %v", err)
	}

	got, _ := svc.Get(devClaims(42), sub.ID)
	if got.Status != model.StatusRevision {
		t.Fatalf("status = %s, want revision", got.Status)
	}

	// revision 状态下可编辑、可再次提交
	desc := "Shorter."
	if _, err := svc.Update(devClaims(42), sub.ID, &model.PayloadPatch{Description: &desc}); err != nil {
		t.Fatalf("update in revision: %v", err)
	}
	mustSubmit(t, svc, 42, sub.ID)
}

func TestDecideRequiresPending(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())

	if _, err := svc.Decide(adminClaims(7), sub.ID, DecisionApprove, ""); !errors.Is(err, util.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState for draft", err)
	}

	if _, err := svc.Decide(devClaims(42), sub.ID, DecisionApprove, ""); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied for non-admin", err)
	}
}

func TestDeleteOnlyDraftOrRejected(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	sub := mustCreate(t, svc, 42, completePayload())
	mustSubmit(t, svc, 42, sub.ID)

	if err := svc.Delete(devClaims(42), sub.ID); !errors.Is(err, util.ErrInvalidState) {
		t.Fatalf("delete pending: err = %v, want ErrInvalidState", err)
	}

	if err := svc.Delete(devClaims(99), sub.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("delete by stranger: err = %v, want ErrPermissionDenied", err)
	}
}

func TestListByOwnerFiltersAndOrders(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 10, DailyCreates: 10})

	first := mustCreate(t, svc, 42, completePayload())
	second := mustCreate(t, svc, 42, model.SubmissionPayload{Name: "Second"})
	mustCreate(t, svc, 99, model.SubmissionPayload{Name: "Other Owner"})

	// 更新 first 让它的 updated_at 最新
	name := "Starlight Drifter DX"
	if _, err := svc.Update(devClaims(42), first.ID, &model.PayloadPatch{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}

	subs, err := svc.ListByOwner(devClaims(42), "", 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("len = %d, want 2", len(subs))
	}
	if subs[0].ID != first.ID {
		t.Fatalf("first item = %s, want most recently updated %s", subs[0].ID, first.ID)
	}

	drafts, err := svc.ListByOwner(devClaims(42), model.StatusDraft, 20)
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("draft len = %d, want 2", len(drafts))
	}
	_ = second
}

func TestGetUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t, config.QuotaConfig{MaxDrafts: 3, DailyCreates: 10})

	if _, err := svc.Get(devClaims(42), "no-such-id"); !errors.Is(err, util.ErrSubmissionNotFound) {
		t.Fatalf("err = %v, want ErrSubmissionNotFound", err)
	}
}
