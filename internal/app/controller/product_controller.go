package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/app/service"
	apperrors "github.com/narayanji/distributor-app/internal/errors"
	"github.com/narayanji/distributor-app/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ListProducts handles GET /products?search=&category=&page=&pageSize=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	query := service.ProductQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "pageSize", 0),
	}

	products, total, err := ctrl.productService.ListProducts(query)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list products", err, nil)
		apperrors.InternalError(c, "Could not load the catalog")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
	})
}

// GetProduct handles GET /products/:sku
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctrl.productService.GetProductBySKU(c.Param("sku"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to get product", err, nil)
		apperrors.RespondWithParsedError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetDealOfDay handles GET /products/deal-of-day
func (ctrl *ProductController) GetDealOfDay(c *gin.Context) {
	product, err := ctrl.productService.GetDealOfDay()
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "No deal is active today")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to get deal of the day", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

type productRequest struct {
	SKU        string  `json:"sku" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Category   string  `json:"category"`
	Unit       string  `json:"unit"`
	PricePerKg float64 `json:"price_per_kg" binding:"required,gt=0"`
	GSTPercent float64 `json:"gst_percent"`
	ImageURL   string  `json:"image_url"`
	IsPopular  bool    `json:"is_popular"`
}

// CreateProduct handles POST /admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "SKU, name and a positive price are required")
		return
	}

	product := &model.Product{
		SKU:        req.SKU,
		Name:       req.Name,
		Category:   req.Category,
		Unit:       req.Unit,
		PricePerKg: req.PricePerKg,
		GSTPercent: req.GSTPercent,
		ImageURL:   req.ImageURL,
		IsPopular:  req.IsPopular,
	}

	if err := ctrl.productService.CreateProduct(product); err != nil {
		if errors.Is(err, service.ErrProductSKUExists) {
			apperrors.Conflict(c, apperrors.ProductSKUExists, "A product with this SKU already exists")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to create product", err, nil)
		apperrors.RespondWithParsedError(c, err, "product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

type productUpdateRequest struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	PricePerKg float64 `json:"price_per_kg"`
	GSTPercent float64 `json:"gst_percent"`
	ImageURL   string  `json:"image_url"`
	IsPopular  bool    `json:"is_popular"`
}

// UpdateProduct handles PUT /admin/products/:sku
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product payload")
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Param("sku"), &model.Product{
		Name:       req.Name,
		Category:   req.Category,
		PricePerKg: req.PricePerKg,
		GSTPercent: req.GSTPercent,
		ImageURL:   req.ImageURL,
		IsPopular:  req.IsPopular,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to update product", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct handles DELETE /admin/products/:sku
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	if err := ctrl.productService.DeleteProduct(c.Param("sku")); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to delete product", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
