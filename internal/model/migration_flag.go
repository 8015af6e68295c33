package model

import "time"

// MigrationFlag 一次性迁移的完成标记，UserID 为 0 表示全局迁移
type MigrationFlag struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex:idx_user_flag"`
	Key       string `gorm:"column:flag_key;size:100;uniqueIndex:idx_user_flag"`
	CreatedAt time.Time
}

func (MigrationFlag) TableName() string {
	return "migration_flags"
}

const (
	FlagLearningMigrated  = "learning-migrated"
	FlagFavoritesMigrated = "favorites-migrated"
	FlagSearchMigrated    = "search-migrated"
	FlagWrongMigrated     = "wrong-questions-migrated"
	FlagCourseIDMigrated  = "course-id-migrated"
)
