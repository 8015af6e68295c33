package repository

import (
	"codestep_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type LearningRepository struct {
	DB *gorm.DB
}

func NewLearningRepository(db *gorm.DB) *LearningRepository {
	return &LearningRepository{DB: db}
}

// FindStatus 没有记录时返回 nil, nil
func (r *LearningRepository) FindStatus(userID uint, courseID string) (*model.LearningStatus, error) {
	var status model.LearningStatus
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *LearningRepository) SaveStatus(status *model.LearningStatus) error {
	return r.DB.Save(status).Error
}

func (r *LearningRepository) ListStatuses(userID uint) ([]model.LearningStatus, error) {
	var statuses []model.LearningStatus
	err := r.DB.Where("user_id = ?", userID).Order("last_study_time DESC").Find(&statuses).Error
	return statuses, err
}

func (r *LearningRepository) ListEnrolled(userID uint) ([]model.LearningStatus, error) {
	var statuses []model.LearningStatus
	err := r.DB.Where("user_id = ? AND is_enrolled = ?", userID, true).
		Order("last_study_time DESC").
		Find(&statuses).Error
	return statuses, err
}

func (r *LearningRepository) RecentEnrolled(userID uint, limit int) ([]model.LearningStatus, error) {
	var statuses []model.LearningStatus
	err := r.DB.Where("user_id = ? AND is_enrolled = ?", userID, true).
		Order("last_study_time DESC").
		Limit(limit).
		Find(&statuses).Error
	return statuses, err
}

// AddStudyHistory 写入后只保留最新的 MaxStudyHistories 条
func (r *LearningRepository) AddStudyHistory(history *model.StudyHistory) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(history).Error; err != nil {
			return err
		}
		return trimOldest[uint](tx, &model.StudyHistory{}, history.UserID, "study_time DESC, id DESC", model.MaxStudyHistories)
	})
}

func (r *LearningRepository) ListStudyHistory(userID uint, limit int) ([]model.StudyHistory, error) {
	var histories []model.StudyHistory
	q := r.DB.Where("user_id = ?", userID).Order("study_time DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&histories).Error
	return histories, err
}

func (r *LearningRepository) CountStudyHistory(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudyHistory{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteAll 删除用户的全部学习状态和学习历史
func (r *LearningRepository) DeleteAll(userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.LearningStatus{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.StudyHistory{}).Error
	})
}

// RenameCourse 旧课程ID改为新ID；同一用户两条记录冲突时保留新ID的记录
func (r *LearningRepository) RenameCourse(oldID, newID string) (int64, error) {
	var renamed int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var legacy []model.LearningStatus
		if err := tx.Where("course_id = ?", oldID).Find(&legacy).Error; err != nil {
			return err
		}
		for _, status := range legacy {
			var count int64
			if err := tx.Model(&model.LearningStatus{}).
				Where("user_id = ? AND course_id = ?", status.UserID, newID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				if err := tx.Delete(&model.LearningStatus{}, status.ID).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&model.LearningStatus{}).
				Where("id = ?", status.ID).
				Update("course_id", newID).Error; err != nil {
				return err
			}
			renamed++
		}
		res := tx.Model(&model.StudyHistory{}).Where("course_id = ?", oldID).Update("course_id", newID)
		if res.Error != nil {
			return res.Error
		}
		renamed += res.RowsAffected
		return nil
	})
	return renamed, err
}

// trimOldest 按 order 排序，只保留前 keep 条
func trimOldest[ID any](tx *gorm.DB, table interface{}, userID uint, order string, keep int) error {
	var ids []ID
	if err := tx.Model(table).
		Where("user_id = ?", userID).
		Order(order).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) <= keep {
		return nil
	}
	return tx.Where("id IN ?", ids[keep:]).Delete(table).Error
}
