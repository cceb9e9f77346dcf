package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

// Open connects to the sqlite database at path and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(
		&game.RosterEntry{},
		&game.PlayerProfile{},
		&game.AbilityStat{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database %s: %w", path, err)
	}
	return db, nil
}
