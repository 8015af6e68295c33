package service

import (
	"codestep_backend/internal/catalog"
	"codestep_backend/internal/model"
	"codestep_backend/internal/repository"
	"codestep_backend/internal/util"
	"codestep_backend/pkg/logger"
	"fmt"

	"go.uber.org/zap"
)

type LearningService struct {
	Repo    *repository.LearningRepository
	Catalog *catalog.Catalog
}

func NewLearningService(repo *repository.LearningRepository, cat *catalog.Catalog) *LearningService {
	return &LearningService{Repo: repo, Catalog: cat}
}

// canonicalCourse 旧ID转换为当前课程ID，课程不存在时返回错误
func (s *LearningService) canonicalCourse(courseID string) (*model.Course, error) {
	course := s.Catalog.CourseByID(courseID)
	if course == nil {
		return nil, fmt.Errorf("%w: %s", util.ErrCourseNotFound, courseID)
	}
	return course, nil
}

// Enroll 第一次加入时从第1章第1步开始；重新加入保留原有进度
func (s *LearningService) Enroll(userID uint, courseID string, language model.LanguageType) (*model.LearningStatus, error) {
	course, err := s.canonicalCourse(courseID)
	if err != nil {
		return nil, err
	}
	if language == "" {
		language = course.Type
	}

	status, err := s.Repo.FindStatus(userID, course.ID)
	if err != nil {
		return nil, err
	}

	now := model.NowMillis()
	if status == nil {
		status = &model.LearningStatus{
			UserID:            userID,
			CourseID:          course.ID,
			Language:          language,
			CurrentChapter:    1,
			CurrentStep:       1,
			CompletedSteps:    []model.StepKey{},
			CompletedChapters: []int{},
			IsEnrolled:        true,
			LastStudyTime:     now,
		}
	} else if !status.IsEnrolled {
		status.IsEnrolled = true
		status.LastStudyTime = now
	} else {
		return status, nil
	}

	if err := s.Repo.SaveStatus(status); err != nil {
		return nil, err
	}
	logger.Log.Info("Course enrolled", zap.Uint("userId", userID), zap.String("courseId", course.ID))
	return status, nil
}

// Unenroll 只取消加入状态，学习记录保留
func (s *LearningService) Unenroll(userID uint, courseID string) error {
	status, err := s.Repo.FindStatus(userID, catalog.MigrateToNewID(courseID))
	if err != nil {
		return err
	}
	if status == nil || !status.IsEnrolled {
		return nil
	}
	status.IsEnrolled = false
	return s.Repo.SaveStatus(status)
}

// ClearAll 删除用户所有课程的学习状态和学习历史
func (s *LearningService) ClearAll(userID uint) error {
	if err := s.Repo.DeleteAll(userID); err != nil {
		return err
	}
	logger.Log.Info("Learning status cleared", zap.Uint("userId", userID))
	return nil
}

func (s *LearningService) IsEnrolled(userID uint, courseID string) (bool, error) {
	status, err := s.Repo.FindStatus(userID, catalog.MigrateToNewID(courseID))
	if err != nil || status == nil {
		return false, err
	}
	return status.IsEnrolled, nil
}

// GetStatus 没有记录时返回 nil
func (s *LearningService) GetStatus(userID uint, courseID string) (*model.LearningStatus, error) {
	return s.Repo.FindStatus(userID, catalog.MigrateToNewID(courseID))
}

// UpdateProgress 记录当前位置，completed 为 true 时同时标记步骤完成；没有学习记录时返回 nil, nil
func (s *LearningService) UpdateProgress(userID uint, courseID string, chapterID, stepID int, completed bool) (*model.LearningStatus, error) {
	status, err := s.Repo.FindStatus(userID, catalog.MigrateToNewID(courseID))
	if err != nil {
		return nil, err
	}
	if status == nil {
		logger.Log.Warn("Progress update for unknown learning status",
			zap.Uint("userId", userID),
			zap.String("courseId", courseID))
		return nil, nil
	}
	if s.Catalog.Step(status.CourseID, chapterID, stepID) == nil {
		return nil, fmt.Errorf("%w: %s %d-%d", util.ErrStepNotFound, status.CourseID, chapterID, stepID)
	}

	status.CurrentChapter = chapterID
	status.CurrentStep = stepID
	status.LastStudyTime = model.NowMillis()
	if completed {
		status.AddCompletedStep(model.NewStepKey(chapterID, stepID))
	}

	if err := s.Repo.SaveStatus(status); err != nil {
		return nil, err
	}
	return status, nil
}

// MarkChapterCompleted 章节内所有步骤都完成后才能标记；重复调用结果不变；没有学习记录时返回 nil, nil
func (s *LearningService) MarkChapterCompleted(userID uint, courseID string, chapterID int) (*model.LearningStatus, error) {
	status, err := s.Repo.FindStatus(userID, catalog.MigrateToNewID(courseID))
	if err != nil {
		return nil, err
	}
	if status == nil {
		logger.Log.Warn("Chapter completion for unknown learning status",
			zap.Uint("userId", userID),
			zap.String("courseId", courseID),
			zap.Int("chapterId", chapterID))
		return nil, nil
	}
	if status.HasCompletedChapter(chapterID) {
		return status, nil
	}

	course, err := s.canonicalCourse(status.CourseID)
	if err != nil {
		return nil, err
	}
	chapter := course.Chapter(chapterID)
	if chapter == nil {
		return nil, fmt.Errorf("%w: chapter %d", util.ErrStepNotFound, chapterID)
	}

	var missing []model.StepKey
	for _, step := range chapter.Steps {
		key := model.NewStepKey(chapterID, step.ID)
		if !status.HasCompletedStep(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", util.ErrChapterIncomplete, missing)
	}

	status.AddCompletedChapter(chapterID)
	status.RecomputeProgress(len(course.Chapters))
	status.LastStudyTime = model.NowMillis()
	if err := s.Repo.SaveStatus(status); err != nil {
		return nil, err
	}
	logger.Log.Info("Chapter completed",
		zap.Uint("userId", userID),
		zap.String("courseId", status.CourseID),
		zap.Int("chapterId", chapterID),
		zap.Int("progress", status.Progress))
	return status, nil
}

// CompleteChapter 标记当前步骤完成后再标记章节，用于章节最后一步的"完成本章"
func (s *LearningService) CompleteChapter(userID uint, courseID string, chapterID, stepID int) (*model.LearningStatus, error) {
	status, err := s.UpdateProgress(userID, courseID, chapterID, stepID, true)
	if err != nil || status == nil {
		return nil, err
	}
	return s.MarkChapterCompleted(userID, courseID, chapterID)
}

func (s *LearningService) IsStepCompleted(userID uint, courseID string, chapterID, stepID int) (bool, error) {
	status, err := s.Repo.FindStatus(userID, catalog.MigrateToNewID(courseID))
	if err != nil || status == nil {
		return false, err
	}
	return status.HasCompletedStep(model.NewStepKey(chapterID, stepID)), nil
}

func (s *LearningService) IsChapterCompleted(userID uint, courseID string, chapterID int) (bool, error) {
	status, err := s.Repo.FindStatus(userID, catalog.MigrateToNewID(courseID))
	if err != nil || status == nil {
		return false, err
	}
	return status.HasCompletedChapter(chapterID), nil
}

func (s *LearningService) EnrolledCourses(userID uint) ([]model.LearningStatus, error) {
	return s.Repo.ListEnrolled(userID)
}

func (s *LearningService) RecentCourses(userID uint, limit int) ([]model.LearningStatus, error) {
	if limit <= 0 {
		limit = util.DefaultRecentCourses
	}
	return s.Repo.RecentEnrolled(userID, limit)
}

func (s *LearningService) AddStudyHistory(userID uint, history *model.StudyHistory) error {
	history.UserID = userID
	history.CourseID = catalog.MigrateToNewID(history.CourseID)
	if history.StudyTime == 0 {
		history.StudyTime = model.NowMillis()
	}
	return s.Repo.AddStudyHistory(history)
}

func (s *LearningService) StudyHistory(userID uint, limit int) ([]model.StudyHistory, error) {
	return s.Repo.ListStudyHistory(userID, limit)
}

type CourseProgress struct {
	CourseID          string             `json:"courseId"`
	Title             string             `json:"title"`
	Language          model.LanguageType `json:"language"`
	CompletedChapters int                `json:"completedChapters"`
	TotalChapters     int                `json:"totalChapters"`
	CompletedSteps    int                `json:"completedSteps"`
	TotalSteps        int                `json:"totalSteps"`
	Progress          int                `json:"progress"`
	IsEnrolled        bool               `json:"isEnrolled"`
}

type LearningStats struct {
	EnrolledCount     int              `json:"enrolledCount"`
	CompletedChapters int              `json:"completedChapters"`
	CompletedSteps    int              `json:"completedSteps"`
	CompletedCourses  int              `json:"completedCourses"`
	OverallProgress   int              `json:"overallProgress"`
	Courses           []CourseProgress `json:"courses"`
}

func (s *LearningService) Stats(userID uint) (*LearningStats, error) {
	statuses, err := s.Repo.ListStatuses(userID)
	if err != nil {
		return nil, err
	}

	stats := &LearningStats{Courses: make([]CourseProgress, 0, len(statuses))}
	progressSum := 0
	for _, status := range statuses {
		course := s.Catalog.CourseByID(status.CourseID)
		if course == nil {
			continue
		}
		cp := CourseProgress{
			CourseID:          course.ID,
			Title:             course.Title,
			Language:          course.Type,
			CompletedChapters: len(status.CompletedChapters),
			TotalChapters:     len(course.Chapters),
			CompletedSteps:    len(status.CompletedSteps),
			TotalSteps:        course.TotalSteps(),
			Progress:          status.Progress,
			IsEnrolled:        status.IsEnrolled,
		}
		stats.Courses = append(stats.Courses, cp)

		stats.CompletedChapters += cp.CompletedChapters
		stats.CompletedSteps += cp.CompletedSteps
		if status.IsEnrolled {
			stats.EnrolledCount++
			progressSum += status.Progress
		}
		if status.Progress >= 100 {
			stats.CompletedCourses++
		}
	}
	if stats.EnrolledCount > 0 {
		stats.OverallProgress = progressSum / stats.EnrolledCount
	}
	return stats, nil
}
