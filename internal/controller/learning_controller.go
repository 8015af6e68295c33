package controller

import (
	"codestep_backend/internal/model"
	"codestep_backend/internal/service"
	"codestep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

type EnrollRequest struct {
	Language model.LanguageType `json:"language"`
}

// Enroll godoc
// @Summary 加入课程
// @Description 首次加入从第1章第1步开始，重新加入保留原进度
// @Tags 学习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param body body EnrollRequest false "课程语言"
// @Success 200 {object} util.Response{data=model.LearningStatus}
// @Failure 404 {object} util.Response
// @Router /api/learning/courses/{courseId}/enroll [post]
func (c *LearningController) Enroll(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req EnrollRequest
	_ = ctx.ShouldBindJSON(&req)

	status, err := c.LearningService.Enroll(userID, ctx.Param("courseId"), req.Language)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// Unenroll godoc
// @Summary 退出课程
// @Description 学习记录保留
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/learning/courses/{courseId}/enroll [delete]
func (c *LearningController) Unenroll(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.LearningService.Unenroll(userID, ctx.Param("courseId")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetStatus godoc
// @Summary 课程学习状态
// @Description 没有记录时 data 为 null
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=model.LearningStatus}
// @Router /api/learning/courses/{courseId} [get]
func (c *LearningController) GetStatus(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	status, err := c.LearningService.GetStatus(userID, ctx.Param("courseId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

type ProgressRequest struct {
	ChapterID int  `json:"chapterId" binding:"required,min=1"`
	StepID    int  `json:"stepId" binding:"required,min=1"`
	Completed bool `json:"completed"`
}

// UpdateProgress godoc
// @Summary 更新学习进度
// @Description 记录当前位置，completed 为 true 时标记步骤完成
// @Tags 学习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param body body ProgressRequest true "当前步骤"
// @Success 200 {object} util.Response{data=model.LearningStatus} "没有学习记录时 data 为 null"
// @Router /api/learning/courses/{courseId}/progress [put]
func (c *LearningController) UpdateProgress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	status, err := c.LearningService.UpdateProgress(userID, ctx.Param("courseId"), req.ChapterID, req.StepID, req.Completed)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

type CompleteChapterRequest struct {
	StepID int `json:"stepId"`
}

// CompleteChapter godoc
// @Summary 完成章节
// @Description 章节所有步骤完成后才能标记，重复调用结果不变；传入 stepId 时先标记该步骤完成
// @Tags 学习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param chapterId path int true "章节ID"
// @Param body body CompleteChapterRequest false "当前步骤"
// @Success 200 {object} util.Response{data=model.LearningStatus}
// @Failure 409 {object} util.Response "章节还有未完成的步骤"
// @Router /api/learning/courses/{courseId}/chapters/{chapterId}/complete [post]
func (c *LearningController) CompleteChapter(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	chapterID, ok := util.ParsePositiveInt(ctx.Param("chapterId"))
	if !ok {
		util.BadRequest(ctx, "invalid chapterId")
		return
	}
	var req CompleteChapterRequest
	_ = ctx.ShouldBindJSON(&req)

	var status *model.LearningStatus
	var err error
	if req.StepID > 0 {
		status, err = c.LearningService.CompleteChapter(userID, ctx.Param("courseId"), chapterID, req.StepID)
	} else {
		status, err = c.LearningService.MarkChapterCompleted(userID, ctx.Param("courseId"), chapterID)
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// GetStepState godoc
// @Summary 步骤完成状态
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "课程ID"
// @Param chapterId path int true "章节ID"
// @Param stepId path int true "步骤ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/learning/courses/{courseId}/chapters/{chapterId}/steps/{stepId} [get]
func (c *LearningController) GetStepState(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	chapterID, stepID, ok := stepParams(ctx)
	if !ok {
		return
	}
	courseID := ctx.Param("courseId")
	stepDone, err := c.LearningService.IsStepCompleted(userID, courseID, chapterID, stepID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	chapterDone, err := c.LearningService.IsChapterCompleted(userID, courseID, chapterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"stepCompleted": stepDone, "chapterCompleted": chapterDone})
}

// ListEnrolled godoc
// @Summary 已加入的课程
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LearningStatus}
// @Router /api/learning/courses [get]
func (c *LearningController) ListEnrolled(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	list, err := c.LearningService.EnrolledCourses(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// ListRecent godoc
// @Summary 最近学习的课程
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量" default(5)
// @Success 200 {object} util.Response{data=[]model.LearningStatus}
// @Router /api/learning/recent [get]
func (c *LearningController) ListRecent(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	list, err := c.LearningService.RecentCourses(userID, util.QueryInt(ctx.Query("limit"), util.DefaultRecentCourses))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

type StudyHistoryRequest struct {
	CourseID       string             `json:"courseId" binding:"required"`
	Language       model.LanguageType `json:"language"`
	Duration       int                `json:"duration" binding:"min=0"`
	StepsCompleted int                `json:"stepsCompleted" binding:"min=0"`
}

// AddStudyHistory godoc
// @Summary 记录学习时长
// @Tags 学习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body StudyHistoryRequest true "学习记录"
// @Success 201 {object} util.Response
// @Router /api/learning/history [post]
func (c *LearningController) AddStudyHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req StudyHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	history := &model.StudyHistory{
		CourseID:       req.CourseID,
		Language:       req.Language,
		Duration:       req.Duration,
		StepsCompleted: req.StepsCompleted,
	}
	if err := c.LearningService.AddStudyHistory(userID, history); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, history)
}

// ListStudyHistory godoc
// @Summary 学习记录
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量" default(50)
// @Success 200 {object} util.Response{data=[]model.StudyHistory}
// @Router /api/learning/history [get]
func (c *LearningController) ListStudyHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	list, err := c.LearningService.StudyHistory(userID, util.QueryInt(ctx.Query("limit"), 50))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetStats godoc
// @Summary 学习统计
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.LearningStats}
// @Router /api/learning/stats [get]
func (c *LearningController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	stats, err := c.LearningService.Stats(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// ClearAll godoc
// @Summary 清空学习状态
// @Description 删除当前用户所有课程的学习状态和学习历史
// @Tags 学习
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/learning [delete]
func (c *LearningController) ClearAll(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.LearningService.ClearAll(userID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
