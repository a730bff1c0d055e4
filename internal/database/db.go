package database

import (
	"fmt"

	"cybersentinel/internal/config"
	"cybersentinel/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN builds the postgres connection string for cfg.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
}

// InitDB connects to postgres and migrates the history table.
// It returns nil, nil when no database is configured.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	if !cfg.DBEnabled {
		logrus.Info("No database configured - analysis history disabled")
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.AnalysisRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	logrus.Info("Database connection established and migrated")
	return db, nil
}
