package controller

import (
	"gamehub_backend/internal/model"
	"gamehub_backend/internal/repository"
	"gamehub_backend/internal/service"
	"gamehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	SubmissionService *service.SubmissionService
	ModerationService *service.ModerationService
	RetentionService  *service.RetentionService
	UserRepo          *repository.UserRepository
}

func NewAdminController(
	submissionService *service.SubmissionService,
	moderationService *service.ModerationService,
	retentionService *service.RetentionService,
	userRepo *repository.UserRepository,
) *AdminController {
	return &AdminController{
		SubmissionService: submissionService,
		ModerationService: moderationService,
		RetentionService:  retentionService,
		UserRepo:          userRepo,
	}
}

// @Summary 审核队列
// @Description 无状态过滤时 pending 置顶，按提交时间倒序
// @Tags 管理员审核
// @Security BearerAuth
// @Produce json
// @Param status query string false "状态过滤" Enums(draft, pending, published, rejected, revision)
// @Param limit query int false "数量上限" default(20)
// @Param offset query int false "偏移量" default(0)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/submissions [get]
func (c *AdminController) ListQueue(ctx *gin.Context) {
	status := model.SubmissionStatus(ctx.Query("status"))
	limit := util.ParseLimit(ctx.DefaultQuery("limit", "20"), 20, 100)
	offset := int(util.MustParseUint(ctx.DefaultQuery("offset", "0")))

	items, total, err := c.ModerationService.ListQueue(status, limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:   items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// DecisionRequest 审批请求体
// swagger:model DecisionRequest
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject request_revision"`
	Notes    string `json:"notes"`
}

// @Summary 审批投稿
// @Description approve 发布到目录并写入 published_ref；reject/request_revision 记录审核意见
// @Tags 管理员审核
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "投稿ID"
// @Param body body DecisionRequest true "审批结果"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 409 {object} util.Response "非 pending 状态"
// @Router /api/admin/submissions/{id}/decision [post]
func (c *AdminController) Decide(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req DecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.SubmissionService.Decide(user, ctx.Param("id"), service.Decision(req.Decision), req.Notes)
	if err != nil {
		respondSubmissionError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

// @Summary 手动触发保留策略清理
// @Tags 管理员审核
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response{data=service.SweepResult}
// @Router /api/admin/submissions/sweep [post]
func (c *AdminController) RunSweep(ctx *gin.Context) {
	result, err := c.RetentionService.RunSweep()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 授予开发者投稿资质
// @Tags 管理员审核
// @Security BearerAuth
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/admin/developers/{id}/approve [post]
func (c *AdminController) ApproveDeveloper(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	if err := c.UserRepo.SetDeveloperApproved(id, true); err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
