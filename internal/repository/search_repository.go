package repository

import (
	"codestep_backend/internal/model"

	"gorm.io/gorm"
)

type SearchRepository struct {
	DB *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{DB: db}
}

// Record 同一查询词先删后插，保证最新的在前且不重复
func (r *SearchRepository) Record(history *model.SearchHistory) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND query = ?", history.UserID, history.Query).
			Delete(&model.SearchHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}
		return trimOldest[string](tx, &model.SearchHistory{}, history.UserID, "timestamp DESC, created_at DESC", model.MaxSearchHistories)
	})
}

func (r *SearchRepository) List(userID uint) ([]model.SearchHistory, error) {
	var histories []model.SearchHistory
	err := r.DB.Where("user_id = ?", userID).Order("timestamp DESC, created_at DESC").Find(&histories).Error
	return histories, err
}

func (r *SearchRepository) Delete(userID uint, id string) (bool, error) {
	res := r.DB.Where("user_id = ? AND id = ?", userID, id).Delete(&model.SearchHistory{})
	return res.RowsAffected > 0, res.Error
}

func (r *SearchRepository) Clear(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.SearchHistory{}).Error
}
