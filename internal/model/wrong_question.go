package model

import "fmt"

// WrongQuestion 错题记录，QuestionID 形如 courseId-chapterId-stepId
type WrongQuestion struct {
	ID            uint         `gorm:"primaryKey" json:"-"`
	UserID        uint         `gorm:"uniqueIndex:idx_user_question;not null" json:"-"`
	QuestionID    string       `gorm:"size:191;uniqueIndex:idx_user_question;not null" json:"id"`
	CourseID      string       `gorm:"size:100;index" json:"courseId"`
	ChapterID     int          `json:"chapterId"`
	StepID        int          `json:"stepId"`
	Language      LanguageType `gorm:"size:20" json:"language"`
	Question      string       `gorm:"size:255" json:"question"`
	UserAnswer    string       `gorm:"size:255" json:"userAnswer"`
	CorrectAnswer string       `gorm:"size:255" json:"correctAnswer"`
	Timestamp     int64        `json:"timestamp"`
	Attempts      int          `gorm:"default:1" json:"attempts"`
}

func (WrongQuestion) TableName() string {
	return "wrong_questions"
}

func WrongQuestionID(courseID string, chapterID, stepID int) string {
	return fmt.Sprintf("%s-%d-%d", courseID, chapterID, stepID)
}
