package db

import (
	"github.com/ikitchen/ikitchen-backend/internal/app/model"
	"github.com/ikitchen/ikitchen-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(gormDB *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := gormDB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
