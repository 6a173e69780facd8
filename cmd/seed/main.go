// Seeds the catalog with the initial gajak range and creates the back-office
// admin account. Safe to run repeatedly; existing rows are left alone.
package main

import (
	"errors"

	"github.com/narayanji/distributor-app/config"
	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/app/repository"
	"github.com/narayanji/distributor-app/internal/db"
	"github.com/narayanji/distributor-app/pkg/logger"
	"github.com/narayanji/distributor-app/pkg/util"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	seedProducts(repository.NewProductRepository(db.GetDB()))
	seedAdmin(repository.NewUserRepository(db.GetDB()))

	logger.Info("Seeding complete", nil)
}

func seedProducts(products repository.ProductRepository) {
	catalog := []model.Product{
		{SKU: "GJK-REG-250", Name: "Regular Gajak 250g", Category: "gajak", PricePerKg: 450, GSTPercent: 5, IsPopular: true},
		{SKU: "GJK-SPL-250", Name: "Special Gajak 250g", Category: "gajak", PricePerKg: 520, GSTPercent: 5, IsPopular: true},
		{SKU: "GJK-DRY-500", Name: "Dry Fruit Gajak 500g", Category: "dry-fruit", PricePerKg: 680, GSTPercent: 5},
		{SKU: "GJK-TIL-250", Name: "Til Gajak 250g", Category: "gajak", PricePerKg: 420, GSTPercent: 5},
	}

	for i := range catalog {
		_, err := products.FindBySKU(catalog[i].SKU)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Fatal("Failed to check existing product", err, map[string]interface{}{
				"sku": catalog[i].SKU,
			})
		}

		if err := products.Create(&catalog[i]); err != nil {
			logger.Fatal("Failed to seed product", err, map[string]interface{}{
				"sku": catalog[i].SKU,
			})
		}
		logger.Info("Seeded product", map[string]interface{}{
			"sku":  catalog[i].SKU,
			"name": catalog[i].Name,
		})
	}
}

func seedAdmin(users repository.UserRepository) {
	email := "admin@narayanji.example"
	if _, err := users.FindByEmail(email); err == nil {
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Fatal("Failed to check existing admin", err)
	}

	hash, err := util.HashPassword("changeme123")
	if err != nil {
		logger.Fatal("Failed to hash admin password", err)
	}

	admin := &model.User{
		Phone:        "+919800000000",
		Name:         "Back Office",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(admin); err != nil {
		logger.Fatal("Failed to seed admin user", err)
	}

	logger.Info("Seeded admin user", map[string]interface{}{
		"email": email,
	})
}
