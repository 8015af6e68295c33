package model

import (
	"math"
	"time"
)

// LearningStatus 用户在某门课程上的学习状态，每个用户每门课程一条
// swagger:model LearningStatus
type LearningStatus struct {
	ID                uint         `gorm:"primaryKey" json:"-"`
	UserID            uint         `gorm:"uniqueIndex:idx_user_course;not null" json:"-"`
	CourseID          string       `gorm:"size:100;uniqueIndex:idx_user_course;not null" json:"courseId"`
	Language          LanguageType `gorm:"size:20" json:"language"`
	CurrentChapter    int          `gorm:"default:1" json:"currentChapter"`
	CurrentStep       int          `gorm:"default:1" json:"currentStep"`
	CompletedSteps    []StepKey    `gorm:"serializer:json;type:text" json:"completedSteps"`
	CompletedChapters []int        `gorm:"serializer:json;type:text" json:"completedChapters"`
	IsEnrolled        bool         `gorm:"default:false" json:"isEnrolled"`
	LastStudyTime     int64        `json:"lastStudyTime"`
	Progress          int          `gorm:"default:0" json:"progress"`
	CreatedAt         time.Time    `json:"-"`
	UpdatedAt         time.Time    `json:"-"`
}

func (LearningStatus) TableName() string {
	return "learning_statuses"
}

func (s *LearningStatus) HasCompletedStep(key StepKey) bool {
	for _, k := range s.CompletedSteps {
		if k == key {
			return true
		}
	}
	return false
}

// AddCompletedStep 已存在时不重复添加，返回是否有变化
func (s *LearningStatus) AddCompletedStep(key StepKey) bool {
	if s.HasCompletedStep(key) {
		return false
	}
	s.CompletedSteps = append(s.CompletedSteps, key)
	return true
}

func (s *LearningStatus) HasCompletedChapter(chapterID int) bool {
	for _, id := range s.CompletedChapters {
		if id == chapterID {
			return true
		}
	}
	return false
}

func (s *LearningStatus) AddCompletedChapter(chapterID int) bool {
	if s.HasCompletedChapter(chapterID) {
		return false
	}
	s.CompletedChapters = append(s.CompletedChapters, chapterID)
	return true
}

// RecomputeProgress 进度只由已完成章节数推导
func (s *LearningStatus) RecomputeProgress(totalChapters int) {
	if totalChapters <= 0 {
		s.Progress = 0
		return
	}
	p := int(math.Round(float64(len(s.CompletedChapters)) / float64(totalChapters) * 100))
	if p > 100 {
		p = 100
	}
	s.Progress = p
}

// StudyHistory 单次学习记录，每个用户最多保留 MaxStudyHistories 条
type StudyHistory struct {
	ID             uint         `gorm:"primaryKey" json:"-"`
	UserID         uint         `gorm:"index;not null" json:"-"`
	CourseID       string       `gorm:"size:100;index" json:"courseId"`
	Language       LanguageType `gorm:"size:20" json:"language"`
	StudyTime      int64        `json:"studyTime"`
	Duration       int          `json:"duration"`
	StepsCompleted int          `json:"stepsCompleted"`
}

func (StudyHistory) TableName() string {
	return "study_histories"
}

const MaxStudyHistories = 1000
