package repository

import (
	"fmt"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows catalog queries. Search matches name, SKU and
// category; Limit/Offset implement the page/pageSize contract.
type ProductFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	CountWithFilter(filter ProductFilter) (int64, error)
	FindBySKU(sku string) (*model.Product, error)
	FindDealOfDay() (*model.Product, error)
	Update(product *model.Product) error
	DeleteBySKU(sku string) error
	RotateDealOfDay() (*model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"sku":      product.SKU,
		"name":     product.Name,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"sku": product.SKU,
		})
		return err
	}
	return nil
}

func (r *productRepository) filtered(filter ProductFilter) *gorm.DB {
	query := r.db.Model(&model.Product{})

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where(
			"products.name LIKE ? OR products.sku LIKE ? OR products.category LIKE ?",
			like, like, like,
		)
	}
	if filter.Category != "" {
		query = query.Where("products.category = ?", filter.Category)
	}
	return query
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"search":   filter.Search,
		"category": filter.Category,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	query := r.filtered(filter).Order("products.is_popular DESC").Order("products.sku ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) CountWithFilter(filter ProductFilter) (int64, error) {
	var count int64
	if err := r.filtered(filter).Count(&count).Error; err != nil {
		logger.Error("Failed to count products", err, map[string]interface{}{
			"search": filter.Search,
		})
		return 0, err
	}
	return count, nil
}

func (r *productRepository) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindDealOfDay() (*model.Product, error) {
	var product model.Product
	err := r.db.Where("is_deal_of_day = ?", true).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"sku": product.SKU,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"sku": product.SKU,
		})
		return err
	}
	return nil
}

func (r *productRepository) DeleteBySKU(sku string) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"sku": sku,
	})

	if err := r.db.Where("sku = ?", sku).Delete(&model.Product{}).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"sku": sku,
		})
		return err
	}
	return nil
}

// RotateDealOfDay clears the current deal flag and assigns it to the least
// recently featured product. Driven by the daily scheduler.
func (r *productRepository) RotateDealOfDay() (*model.Product, error) {
	if err := r.db.Model(&model.Product{}).
		Where("is_deal_of_day = ?", true).
		Update("is_deal_of_day", false).Error; err != nil {
		return nil, err
	}

	var next model.Product
	if err := r.db.Order("updated_at ASC").First(&next).Error; err != nil {
		return nil, err
	}

	next.IsDealOfDay = true
	if err := r.db.Save(&next).Error; err != nil {
		return nil, err
	}

	logger.Info("Deal of the day rotated", map[string]interface{}{
		"sku": next.SKU,
	})
	return &next, nil
}
