package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/magnetic-studio/studio-api/internal/config"
	"github.com/magnetic-studio/studio-api/internal/models"
)

// Connect opens postgres when DATABASE_URL is set and sqlite otherwise, then
// migrates the schema.
func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case cfg.DatabaseURL != "":
		logger.Info("Connecting to postgres")
		dialector = postgres.Open(cfg.DatabaseURL)
	case cfg.DatabasePath != "":
		logger.Info("Connecting to sqlite", zap.String("path", cfg.DatabasePath))
		dialector = sqlite.Open(cfg.DatabasePath)
	default:
		// Only reachable when Config.DatabaseOptional allowed it.
		logger.Warn("No database configured, using in-memory sqlite")
		dialector = sqlite.Open(":memory:")
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Invitation{},
		&models.Registration{},
		&models.WaitlistEntry{},
		&models.Item{},
		&models.BeginnersClass{},
		&models.BeginnersStudent{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}
