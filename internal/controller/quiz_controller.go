package controller

import (
	"codestep_backend/internal/model"
	"codestep_backend/internal/service"
	"codestep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Description 选择题比较选项字母，填空题匹配任一可接受答案；答错记入错题本，答对从错题本移除
// @Tags 答题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param chapterId path int true "章节ID"
// @Param stepId path int true "步骤ID"
// @Param body body AnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response "不是答题步骤"
// @Router /api/quiz/{courseId}/{chapterId}/{stepId} [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	chapterID, stepID, ok := stepParams(ctx)
	if !ok {
		return
	}
	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.QuizService.CheckAnswer(userID, ctx.Param("courseId"), chapterID, stepID, req.Answer)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListWrongQuestions godoc
// @Summary 错题本
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param courseId query string false "课程ID"
// @Param language query string false "语言"
// @Success 200 {object} util.Response{data=[]model.WrongQuestion}
// @Router /api/quiz/wrong [get]
func (c *QuizController) ListWrongQuestions(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var (
		list []model.WrongQuestion
		err  error
	)
	switch {
	case ctx.Query("courseId") != "":
		list, err = c.QuizService.WrongQuestionsByCourse(userID, ctx.Query("courseId"))
	case ctx.Query("language") != "":
		list, err = c.QuizService.WrongQuestionsByLanguage(userID, model.LanguageType(ctx.Query("language")))
	default:
		list, err = c.QuizService.WrongQuestions(userID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// RemoveWrongQuestion godoc
// @Summary 移出错题本
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param chapterId path int true "章节ID"
// @Param stepId path int true "步骤ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/quiz/wrong/{courseId}/{chapterId}/{stepId} [delete]
func (c *QuizController) RemoveWrongQuestion(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	chapterID, stepID, ok := stepParams(ctx)
	if !ok {
		return
	}
	removed, err := c.QuizService.RemoveWrongQuestion(userID, ctx.Param("courseId"), chapterID, stepID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": removed})
}

// ClearWrongQuestions godoc
// @Summary 清空错题本
// @Description 指定 language 时只清空该语言
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Param language query string false "语言"
// @Success 200 {object} util.Response
// @Router /api/quiz/wrong [delete]
func (c *QuizController) ClearWrongQuestions(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var err error
	if language := ctx.Query("language"); language != "" {
		err = c.QuizService.ClearByLanguage(userID, model.LanguageType(language))
	} else {
		err = c.QuizService.Clear(userID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetStats godoc
// @Summary 错题统计
// @Tags 答题
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.WrongQuestionStats}
// @Router /api/quiz/wrong/stats [get]
func (c *QuizController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	stats, err := c.QuizService.Stats(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
