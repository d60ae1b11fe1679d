package controller

import (
	"errors"
	"gamehub_backend/internal/model"
	"gamehub_backend/internal/service"
	"gamehub_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// respondSubmissionError 统一把领域错误映射为HTTP状态码
func respondSubmissionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrNotApprovedDeveloper):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrInvalidState):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrDraftLimit), errors.Is(err, util.ErrDailyCreateLimit):
		util.Error(ctx, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, util.ErrPayloadIncomplete):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 创建游戏投稿草稿
// @Tags 开发者投稿
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body model.SubmissionPayload true "游戏条目文档"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 401 {object} util.Response "开发者资质未通过"
// @Failure 429 {object} util.Response "超出创建限额"
// @Router /api/developer/submissions [post]
func (c *SubmissionController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var payload model.SubmissionPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.SubmissionService.Create(user, payload)
	if err != nil {
		respondSubmissionError(ctx, err)
		return
	}

	util.Created(ctx, sub)
}

// @Summary 获取单个投稿
// @Tags 开发者投稿
// @Security BearerAuth
// @Produce json
// @Param id path string true "投稿ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/developer/submissions/{id} [get]
func (c *SubmissionController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.SubmissionService.Get(user, ctx.Param("id"))
	if err != nil {
		respondSubmissionError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

// @Summary 浅合并更新投稿文档
// @Description 补丁只替换出现的顶层键；covers 等嵌套对象整体覆盖
// @Tags 开发者投稿
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "投稿ID"
// @Param patch body model.PayloadPatch true "文档补丁"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 409 {object} util.Response "当前状态不允许编辑"
// @Router /api/developer/submissions/{id} [patch]
func (c *SubmissionController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var patch model.PayloadPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.SubmissionService.Update(user, ctx.Param("id"), &patch)
	if err != nil {
		respondSubmissionError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

// @Summary 提交审核
// @Tags 开发者投稿
// @Security BearerAuth
// @Produce json
// @Param id path string true "投稿ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 409 {object} util.Response "当前状态不允许提交"
// @Failure 422 {object} util.Response "必填项缺失"
// @Router /api/developer/submissions/{id}/submit [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.SubmissionService.SubmitForReview(user, ctx.Param("id"))
	if err != nil {
		respondSubmissionError(ctx, err)
		return
	}

	util.Success(ctx, sub)
}

// @Summary 删除投稿（仅草稿或已驳回）
// @Tags 开发者投稿
// @Security BearerAuth
// @Produce json
// @Param id path string true "投稿ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "当前状态不允许删除"
// @Router /api/developer/submissions/{id} [delete]
func (c *SubmissionController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.SubmissionService.Delete(user, ctx.Param("id")); err != nil {
		respondSubmissionError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 我的投稿列表
// @Tags 开发者投稿
// @Security BearerAuth
// @Produce json
// @Param status query string false "状态过滤" Enums(draft, pending, published, rejected, revision)
// @Param limit query int false "数量上限" default(20)
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/developer/submissions [get]
func (c *SubmissionController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status := model.SubmissionStatus(ctx.Query("status"))
	limit := util.ParseLimit(ctx.DefaultQuery("limit", "20"), 20, 100)

	subs, err := c.SubmissionService.ListByOwner(user, status, limit)
	if err != nil {
		respondSubmissionError(ctx, err)
		return
	}

	util.Success(ctx, subs)
}
