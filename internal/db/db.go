package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/model"
)

var DB *gorm.DB

// Open opens the sqlite database at storagePath and migrates the schema.
func Open(storagePath string) (*gorm.DB, error) {
	// 确保存储目录存在
	if storagePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(storagePath), 0755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	conn, err := gorm.Open(sqlite.Open(storagePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// 自动迁移模式
	if err := conn.AutoMigrate(model.AllModels()...); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return conn, nil
}

// InitDB opens the global database or exits.
func InitDB(storagePath string) {
	conn, err := Open(storagePath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", storagePath).Msg("failed to init database")
	}
	DB = conn
}

// CloseDB closes the global database.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
