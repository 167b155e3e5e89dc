package db

import (
	"errors"
	"fmt"

	"github.com/ikitchen/ikitchen-backend/config"
	appLogger "github.com/ikitchen/ikitchen-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConfigured is returned when store credentials are absent. Surfacing
// it at connect time keeps misconfiguration from turning into a nil
// dereference deep inside a pipeline stage.
var ErrNotConfigured = errors.New("store is not configured: set DB_HOST, DB_USER, DB_PASSWORD and DB_NAME")

// Connect opens the database connection and returns the handle. Callers own
// the handle and pass it into repositories explicitly; there is no package
// global.
func Connect(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.DBName == "" {
		return nil, ErrNotConfigured
	}

	appLogger.Info("Connecting to database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
	})

	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // we log through pkg/logger
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"max_idle_conns": 10,
		"max_open_conns": 100,
	})
	return gormDB, nil
}

// Close closes the underlying connection pool.
func Close(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
