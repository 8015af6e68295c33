package controller

import (
	"codestep_backend/internal/catalog"
	"codestep_backend/internal/model"
	"codestep_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	Catalog *catalog.Catalog
}

func NewCourseController(cat *catalog.Catalog) *CourseController {
	return &CourseController{Catalog: cat}
}

// ListCourses godoc
// @Summary 课程列表
// @Description 按语言、关键词、标签和难度筛选课程
// @Tags 课程
// @Produce json
// @Param language query string false "语言" Enums(python, javascript, html, java, css)
// @Param q query string false "关键词"
// @Param tags query string false "标签，逗号分隔"
// @Param difficulty query string false "难度" Enums(beginner, intermediate, advanced)
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	opts := catalog.FilterOptions{
		Language:   model.LanguageType(ctx.Query("language")),
		Query:      ctx.Query("q"),
		Difficulty: model.Difficulty(ctx.Query("difficulty")),
	}
	if tags := ctx.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				opts.Tags = append(opts.Tags, tag)
			}
		}
	}
	util.Success(ctx, c.Catalog.Filter(opts))
}

// GetCourse godoc
// @Summary 课程详情
// @Description 旧课程ID会自动转换为新ID
// @Tags 课程
// @Produce json
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course := c.Catalog.CourseByID(ctx.Param("courseId"))
	if course == nil {
		util.NotFoundWithMessage(ctx, util.ErrCourseNotFound.Error())
		return
	}
	util.Success(ctx, course)
}

// GetStepNavigation godoc
// @Summary 步骤导航信息
// @Description 返回上一步、下一步以及是否为章节最后一步，支持跨章节
// @Tags 课程
// @Produce json
// @Param courseId path string true "课程ID"
// @Param chapterId path int true "章节ID"
// @Param stepId path int true "步骤ID"
// @Success 200 {object} util.Response{data=catalog.NavigationInfo}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/chapters/{chapterId}/steps/{stepId}/nav [get]
func (c *CourseController) GetStepNavigation(ctx *gin.Context) {
	chapterID, stepID, ok := stepParams(ctx)
	if !ok {
		return
	}
	course := c.Catalog.CourseByID(ctx.Param("courseId"))
	if course == nil {
		util.NotFoundWithMessage(ctx, util.ErrCourseNotFound.Error())
		return
	}
	info := c.Catalog.NavigationInfo(course.Type, course.ID, chapterID, stepID)
	if info == nil {
		util.NotFoundWithMessage(ctx, util.ErrStepNotFound.Error())
		return
	}
	util.Success(ctx, info)
}

// GetOverview godoc
// @Summary 课程概览
// @Description 各语言的课程、难度和章节步骤数，以及所有标签
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=object}
// @Router /api/catalog/overview [get]
func (c *CourseController) GetOverview(ctx *gin.Context) {
	languages := make([]gin.H, 0, len(model.AllLanguages))
	counts := c.Catalog.CountByLanguage()
	for _, l := range model.AllLanguages {
		courses := make([]gin.H, 0, counts[l])
		for _, course := range c.Catalog.CoursesByLanguage(l) {
			chapters := c.Catalog.TotalChapters(course.ID)
			steps := make([]int, 0, chapters)
			for _, ch := range course.Chapters {
				steps = append(steps, c.Catalog.ChapterStepsCount(course.ID, ch.ID))
			}
			courses = append(courses, gin.H{
				"id":             course.ID,
				"title":          course.Title,
				"difficulty":     course.Difficulty,
				"difficultyText": catalog.DifficultyText(course.Difficulty),
				"chapters":       chapters,
				"chapterSteps":   steps,
			})
		}
		languages = append(languages, gin.H{
			"language": l,
			"text":     catalog.LanguageText(l),
			"count":    counts[l],
			"courses":  courses,
		})
	}
	util.Success(ctx, gin.H{
		"total":     len(c.Catalog.Courses()),
		"languages": languages,
		"tags":      c.Catalog.AllTags(),
	})
}
