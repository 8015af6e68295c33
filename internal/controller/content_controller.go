package controller

import (
	"codestep_backend/internal/model"
	"codestep_backend/internal/resolver"
	"codestep_backend/internal/service"
	"codestep_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// GetStepContent godoc
// @Summary 获取步骤内容
// @Description 解析步骤对应的 Markdown 路径并返回原文与渲染后的 HTML，资源缺失时返回 404 和解析出的路径
// @Tags 内容
// @Produce json
// @Param language path string true "语言"
// @Param courseId path string true "课程ID"
// @Param chapterId path int true "章节ID"
// @Param stepId path int true "步骤ID"
// @Success 200 {object} util.Response{data=service.StepContent}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/content/{language}/{courseId}/{chapterId}/{stepId} [get]
func (c *ContentController) GetStepContent(ctx *gin.Context) {
	chapterID, stepID, ok := stepParams(ctx)
	if !ok {
		return
	}
	content, err := c.ContentService.GetStep(
		ctx.Request.Context(),
		model.LanguageType(ctx.Param("language")),
		ctx.Param("courseId"),
		chapterID,
		stepID,
	)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// ResolvePath godoc
// @Summary 解析资源路径
// @Description 按当前路径策略解析课程步骤标题对应的 Markdown 路径
// @Tags 内容
// @Produce json
// @Param courseId query string true "课程ID"
// @Param title query string true "步骤标题"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/paths/resolve [get]
func (c *ContentController) ResolvePath(ctx *gin.Context) {
	courseID := strings.TrimSpace(ctx.Query("courseId"))
	title := strings.TrimSpace(ctx.Query("title"))
	if courseID == "" || title == "" {
		util.BadRequest(ctx, "courseId and title are required")
		return
	}
	util.Success(ctx, gin.H{
		"courseId":  courseID,
		"title":     title,
		"strategy":  c.ContentService.Resolver().Name(),
		"available": resolver.Strategies(),
		"path":      c.ContentService.ResolvePath(ctx.Request.Context(), courseID, title),
	})
}

// ValidateCourse godoc
// @Summary 校验课程路径
// @Description 报告章节区间重叠，并检查每个步骤的资源是否存在
// @Tags 内容
// @Produce json
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseValidation}
// @Failure 404 {object} util.Response
// @Router /api/paths/validate/{courseId} [get]
func (c *ContentController) ValidateCourse(ctx *gin.Context) {
	report, err := c.ContentService.ValidateCourse(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// PreloadPaths godoc
// @Summary 预加载路径
// @Description 动态策略下预先探测所有步骤的路径，其他策略无操作
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/paths/preload [post]
func (c *ContentController) PreloadPaths(ctx *gin.Context) {
	if err := c.ContentService.Preload(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"strategy": c.ContentService.Resolver().Name()})
}

// ClearPathCache godoc
// @Summary 清空路径缓存
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/paths/cache [delete]
func (c *ContentController) ClearPathCache(ctx *gin.Context) {
	if err := c.ContentService.ClearPathCache(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
