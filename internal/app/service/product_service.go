package service

import (
	"errors"

	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/app/repository"
	"github.com/narayanji/distributor-app/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductSKUExists = errors.New("product SKU already exists")
)

// ProductQuery is the public listing contract: free-text search plus
// one-based pagination.
type ProductQuery struct {
	Search   string
	Category string
	Page     int
	PageSize int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductService interface {
	ListProducts(query ProductQuery) ([]model.Product, int64, error)
	GetProductBySKU(sku string) (*model.Product, error)
	GetDealOfDay() (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(sku string, updates *model.Product) (*model.Product, error)
	DeleteProduct(sku string) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// ListProducts returns one page of matching products and the total match
// count so clients can paginate.
func (s *productService) ListProducts(query ProductQuery) ([]model.Product, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize > maxPageSize {
		query.PageSize = maxPageSize
	}

	filter := repository.ProductFilter{
		Search:   query.Search,
		Category: query.Category,
		Limit:    query.PageSize,
		Offset:   (query.Page - 1) * query.PageSize,
	}

	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (s *productService) GetProductBySKU(sku string) (*model.Product, error) {
	product, err := s.productRepo.FindBySKU(sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetDealOfDay() (*model.Product, error) {
	product, err := s.productRepo.FindDealOfDay()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	if _, err := s.productRepo.FindBySKU(product.SKU); err == nil {
		return ErrProductSKUExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if product.Unit == "" {
		product.Unit = "kg"
	}

	if err := s.productRepo.Create(product); err != nil {
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"sku":  product.SKU,
		"name": product.Name,
	})
	return nil
}

func (s *productService) UpdateProduct(sku string, updates *model.Product) (*model.Product, error) {
	product, err := s.GetProductBySKU(sku)
	if err != nil {
		return nil, err
	}

	if updates.Name != "" {
		product.Name = updates.Name
	}
	if updates.Category != "" {
		product.Category = updates.Category
	}
	if updates.PricePerKg > 0 {
		product.PricePerKg = updates.PricePerKg
	}
	if updates.GSTPercent > 0 {
		product.GSTPercent = updates.GSTPercent
	}
	if updates.ImageURL != "" {
		product.ImageURL = updates.ImageURL
	}
	product.IsPopular = updates.IsPopular

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"sku": product.SKU,
	})
	return product, nil
}

func (s *productService) DeleteProduct(sku string) error {
	if _, err := s.GetProductBySKU(sku); err != nil {
		return err
	}
	return s.productRepo.DeleteBySKU(sku)
}
