package repository

import (
	"codestep_backend/internal/model"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	DB *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

// Upsert 同一用户同一 ItemID 只保留一条，重复收藏时更新内容
func (r *FavoriteRepository) Upsert(item *model.FavoriteItem) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"type", "title", "language", "course_id", "chapter_id", "step_id",
			"article_id", "description", "tags", "added_at", "updated_at",
		}),
	}).Create(item).Error
}

// Delete 返回是否删除了记录
func (r *FavoriteRepository) Delete(userID uint, itemID string) (bool, error) {
	res := r.DB.Where("user_id = ? AND item_id = ?", userID, itemID).Delete(&model.FavoriteItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *FavoriteRepository) Exists(userID uint, itemID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.FavoriteItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

func (r *FavoriteRepository) List(userID uint) ([]model.FavoriteItem, error) {
	var items []model.FavoriteItem
	err := r.DB.Where("user_id = ?", userID).Order("added_at DESC, id DESC").Find(&items).Error
	return items, err
}

func (r *FavoriteRepository) ListByType(userID uint, t model.FavoriteType) ([]model.FavoriteItem, error) {
	var items []model.FavoriteItem
	err := r.DB.Where("user_id = ? AND type = ?", userID, t).Order("added_at DESC, id DESC").Find(&items).Error
	return items, err
}

func (r *FavoriteRepository) ListByLanguage(userID uint, language model.LanguageType) ([]model.FavoriteItem, error) {
	var items []model.FavoriteItem
	err := r.DB.Where("user_id = ? AND language = ?", userID, language).Order("added_at DESC, id DESC").Find(&items).Error
	return items, err
}

// SearchByTitle 标题包含关键词，不区分大小写
func (r *FavoriteRepository) SearchByTitle(userID uint, query string) ([]model.FavoriteItem, error) {
	var items []model.FavoriteItem
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.DB.Where("user_id = ? AND LOWER(title) LIKE ?", userID, pattern).
		Order("added_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

func (r *FavoriteRepository) Touch(userID uint, itemID string, ts int64) (bool, error) {
	res := r.DB.Model(&model.FavoriteItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Update("last_accessed", ts)
	return res.RowsAffected > 0, res.Error
}

func (r *FavoriteRepository) DeleteAll(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.FavoriteItem{}).Error
}

func (r *FavoriteRepository) DeleteByType(userID uint, t model.FavoriteType) error {
	return r.DB.Where("user_id = ? AND type = ?", userID, t).Delete(&model.FavoriteItem{}).Error
}

type typeCount struct {
	Type  model.FavoriteType
	Count int64
}

func (r *FavoriteRepository) CountByType(userID uint) (map[model.FavoriteType]int64, error) {
	var rows []typeCount
	err := r.DB.Model(&model.FavoriteItem{}).
		Select("type, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.FavoriteType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// RenameCourse 更新课程ID以及课程收藏的 ItemID
func (r *FavoriteRepository) RenameCourse(oldID, newID string) (int64, error) {
	var renamed int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.FavoriteItem{}).Where("course_id = ?", oldID).Update("course_id", newID)
		if res.Error != nil {
			return res.Error
		}
		renamed += res.RowsAffected

		var legacy []model.FavoriteItem
		if err := tx.Where("item_id = ?", model.CourseFavoriteID(oldID)).Find(&legacy).Error; err != nil {
			return err
		}
		for _, item := range legacy {
			var count int64
			if err := tx.Model(&model.FavoriteItem{}).
				Where("user_id = ? AND item_id = ?", item.UserID, model.CourseFavoriteID(newID)).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				if err := tx.Delete(&model.FavoriteItem{}, item.ID).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&model.FavoriteItem{}).
				Where("id = ?", item.ID).
				Update("item_id", model.CourseFavoriteID(newID)).Error; err != nil {
				return err
			}
			renamed++
		}
		return nil
	})
	return renamed, err
}
