package database

import (
	"path/filepath"
	"testing"

	"codestep_backend/internal/config"
	"codestep_backend/internal/model"
)

func TestInitDBSQLite(t *testing.T) {
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Type: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "db", "codestep.db")},
	}
	db, err := InitDB(cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, m := range Models() {
		if !db.Migrator().HasTable(m) {
			t.Fatalf("table for %T not created", m)
		}
	}
	if err := db.Create(&model.MigrationFlag{UserID: 1, Key: model.FlagSearchMigrated}).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestInitDBUnsupported(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Type: "oracle"}}
	if _, err := InitDB(cfg); err == nil {
		t.Fatalf("want error for unsupported database type")
	}
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	if err != nil || rdb != nil {
		t.Fatalf("disabled redis: want nil,nil got %v,%v", rdb, err)
	}
}
