package repository

import (
	"codestep_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type WrongQuestionRepository struct {
	DB *gorm.DB
}

func NewWrongQuestionRepository(db *gorm.DB) *WrongQuestionRepository {
	return &WrongQuestionRepository{DB: db}
}

func (r *WrongQuestionRepository) Find(userID uint, questionID string) (*model.WrongQuestion, error) {
	var q model.WrongQuestion
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *WrongQuestionRepository) Save(q *model.WrongQuestion) error {
	return r.DB.Save(q).Error
}

func (r *WrongQuestionRepository) Delete(userID uint, questionID string) (bool, error) {
	res := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).Delete(&model.WrongQuestion{})
	return res.RowsAffected > 0, res.Error
}

func (r *WrongQuestionRepository) List(userID uint) ([]model.WrongQuestion, error) {
	var list []model.WrongQuestion
	err := r.DB.Where("user_id = ?", userID).Order("timestamp DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *WrongQuestionRepository) ListByCourse(userID uint, courseID string) ([]model.WrongQuestion, error) {
	var list []model.WrongQuestion
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Order("timestamp DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *WrongQuestionRepository) ListByLanguage(userID uint, language model.LanguageType) ([]model.WrongQuestion, error) {
	var list []model.WrongQuestion
	err := r.DB.Where("user_id = ? AND language = ?", userID, language).Order("timestamp DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *WrongQuestionRepository) Clear(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.WrongQuestion{}).Error
}

// RenameCourse 题目ID以课程ID开头，一并更新
func (r *WrongQuestionRepository) RenameCourse(oldID, newID string) (int64, error) {
	var renamed int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var legacy []model.WrongQuestion
		if err := tx.Where("course_id = ?", oldID).Find(&legacy).Error; err != nil {
			return err
		}
		for _, q := range legacy {
			newQID := model.WrongQuestionID(newID, q.ChapterID, q.StepID)
			var count int64
			if err := tx.Model(&model.WrongQuestion{}).
				Where("user_id = ? AND question_id = ?", q.UserID, newQID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				if err := tx.Delete(&model.WrongQuestion{}, q.ID).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&model.WrongQuestion{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
				"course_id":   newID,
				"question_id": newQID,
			}).Error; err != nil {
				return err
			}
			renamed++
		}
		return nil
	})
	return renamed, err
}

func (r *WrongQuestionRepository) ClearByLanguage(userID uint, language model.LanguageType) error {
	return r.DB.Where("user_id = ? AND language = ?", userID, language).Delete(&model.WrongQuestion{}).Error
}
