package database

import (
	"fmt"
	"log/slog"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. Timestamps are written in UTC so
// month bucketing and window comparisons behave the same on every driver.
func Open(cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == "sqlite" {
		// One connection keeps an in-memory database alive and serialises
		// writers, which sqlite requires anyway.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	return db, nil
}

// Migrate creates or updates users, properties, property_agents and
// audit_logs.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PropertyAgent{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if log != nil {
		log.Info("database migration complete", "driver", db.Dialector.Name())
	}
	return nil
}
