package model

import (
	"fmt"
	"time"
)

type FavoriteType string

const (
	FavoriteCourse  FavoriteType = "course"
	FavoriteArticle FavoriteType = "article"
	FavoriteStep    FavoriteType = "step"
)

var AllFavoriteTypes = []FavoriteType{FavoriteCourse, FavoriteArticle, FavoriteStep}

func (t FavoriteType) Valid() bool {
	return t == FavoriteCourse || t == FavoriteArticle || t == FavoriteStep
}

// FavoriteItem 收藏项，ItemID 在同一用户下唯一
// swagger:model FavoriteItem
type FavoriteItem struct {
	ID           uint         `gorm:"primaryKey" json:"-"`
	UserID       uint         `gorm:"uniqueIndex:idx_user_item;not null" json:"-"`
	ItemID       string       `gorm:"size:191;uniqueIndex:idx_user_item;not null" json:"id"`
	Type         FavoriteType `gorm:"size:20;index" json:"type"`
	Title        string       `gorm:"size:255" json:"title"`
	Language     LanguageType `gorm:"size:20" json:"language,omitempty"`
	CourseID     string       `gorm:"size:100" json:"courseId,omitempty"`
	ChapterID    int          `json:"chapterId,omitempty"`
	StepID       int          `json:"stepId,omitempty"`
	ArticleID    string       `gorm:"size:100" json:"articleId,omitempty"`
	Description  string       `gorm:"type:text" json:"description,omitempty"`
	Tags         []string     `gorm:"serializer:json;type:text" json:"tags,omitempty"`
	AddedAt      int64        `json:"addedAt"`
	LastAccessed int64        `json:"lastAccessed,omitempty"`
	CreatedAt    time.Time    `json:"-"`
	UpdatedAt    time.Time    `json:"-"`
}

func (FavoriteItem) TableName() string {
	return "favorite_items"
}

func CourseFavoriteID(courseID string) string {
	return "course-" + courseID
}

func StepFavoriteID(courseID string, chapterID, stepID int) string {
	return fmt.Sprintf("step-%s-%d-%d", courseID, chapterID, stepID)
}
