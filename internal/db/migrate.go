package db

import (
	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/pkg/logger"
)

// Migrate runs the schema migrations
func Migrate() error {
	logger.Info("Running database migrations", nil)

	err := DB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed", nil)
	return nil
}
