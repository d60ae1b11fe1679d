package controller

import (
	"gamehub_backend/internal/service"
	"gamehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MediaController struct {
	MediaService *service.MediaService
}

func NewMediaController(mediaService *service.MediaService) *MediaController {
	return &MediaController{MediaService: mediaService}
}

// @Summary 上传封面/截图，换取媒体引用ID
// @Description 投稿文档只引用返回的 ref；比例与裁剪规则由上游图片服务负责
// @Tags 开发者投稿
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "图片文件"
// @Success 201 {object} util.Response{data=service.MediaRef}
// @Failure 400 {object} util.Response "不支持的文件类型"
// @Router /api/developer/media [post]
func (c *MediaController) Upload(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	ref, err := c.MediaService.Mint(ctx.Request.Context(), fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, ref)
}
