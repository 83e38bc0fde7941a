package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aulalink/lms-service/internal/config"
	"github.com/aulalink/lms-service/internal/models"
)

// InitDatabase opens the Postgres connection and runs schema migration.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.Environment == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// migrate creates and updates the service-owned tables. The legacy
// enrollment relation is deliberately absent: it belongs to the previous
// system and this service only ever reads it.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Course{},
		&models.Session{},
		&models.Homework{},
		&models.Submission{},
		&models.Enrollment{},
		&models.RoleSyncOutbox{},
	)
}
