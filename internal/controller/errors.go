package controller

import (
	"codestep_backend/internal/service"
	"codestep_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 把业务错误映射为对应的 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	var notFound *service.ContentNotFoundError
	switch {
	case errors.As(err, &notFound):
		util.ErrorWithData(ctx, http.StatusNotFound, err.Error(), gin.H{"path": notFound.Path})
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrStepNotFound),
		errors.Is(err, util.ErrContentNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFoundWithMessage(ctx, err.Error())
	case errors.Is(err, util.ErrChapterIncomplete):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrNotInteractive),
		errors.Is(err, util.ErrInvalidFavorite),
		errors.Is(err, util.ErrEmptyQuery):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentUserID 未登录时写入 401 并返回 false
func currentUserID(ctx *gin.Context) (uint, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return user.UserID, true
}

// optionalUserID 匿名请求返回 0
func optionalUserID(ctx *gin.Context) uint {
	if user := util.GetUserFromContext(ctx); user != nil {
		return user.UserID
	}
	return 0
}

// stepParams 解析路径中的章节和步骤编号
func stepParams(ctx *gin.Context) (int, int, bool) {
	chapterID, ok := util.ParsePositiveInt(ctx.Param("chapterId"))
	if !ok {
		util.BadRequest(ctx, "invalid chapterId")
		return 0, 0, false
	}
	stepID, ok := util.ParsePositiveInt(ctx.Param("stepId"))
	if !ok {
		util.BadRequest(ctx, "invalid stepId")
		return 0, 0, false
	}
	return chapterID, stepID, true
}
