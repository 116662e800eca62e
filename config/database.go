package config

import (
	"fmt"
	"os"

	"github.com/backyard-app/backyard-sync/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Database *gorm.DB

// Connect opens the local board database. When BACKYARD_DB_URL is set the
// board state lives in postgres (shared across machines); otherwise it lives
// in a sqlite file next to the agent.
func Connect() error {
	var err error
	if dbURL := os.Getenv("BACKYARD_DB_URL"); dbURL != "" {
		Database, err = gorm.Open(postgres.Open(dbURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	} else {
		path := os.Getenv("BACKYARD_STATE_FILE")
		if path == "" {
			path = "backyard-board.db"
		}
		Database, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	}
	if err != nil {
		return fmt.Errorf("connect board database: %w", err)
	}

	if err := Database.AutoMigrate(&models.StorageEntry{}, &models.OutboxEntry{}); err != nil {
		return fmt.Errorf("auto migrate board database: %w", err)
	}

	return nil
}
