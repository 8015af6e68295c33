package repository

import (
	"codestep_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MigrationFlagRepository struct {
	DB *gorm.DB
}

func NewMigrationFlagRepository(db *gorm.DB) *MigrationFlagRepository {
	return &MigrationFlagRepository{DB: db}
}

func (r *MigrationFlagRepository) Has(userID uint, key string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.MigrationFlag{}).
		Where("user_id = ? AND flag_key = ?", userID, key).
		Count(&count).Error
	return count > 0, err
}

func (r *MigrationFlagRepository) Set(userID uint, key string) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.MigrationFlag{UserID: userID, Key: key}).Error
}

func (r *MigrationFlagRepository) List(userID uint) ([]string, error) {
	var keys []string
	err := r.DB.Model(&model.MigrationFlag{}).Where("user_id = ?", userID).Pluck("flag_key", &keys).Error
	return keys, err
}
