package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/app/repository"
	"github.com/narayanji/distributor-app/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrBelowMinQuantity   = errors.New("quantity below minimum orderable amount")
	ErrUnknownSKU         = errors.New("unknown product SKU")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrNotOrderOwner      = errors.New("order belongs to another user")
)

// minOrderQuantityKg mirrors the storefront's smallest orderable amount.
const minOrderQuantityKg = 0.5

type OrderService interface {
	// CreateOrder turns submitted SKU/quantity lines into a persisted order.
	// Prices and GST are resolved from the catalog at submission time; nothing
	// the client sends besides SKU and quantity is trusted.
	CreateOrder(userID uint, lines []model.CartLine) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByNumber(userID uint, number string, isAdmin bool) (*model.Order, error)
	UpdateOrderStatus(number string, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

func (s *orderService) CreateOrder(userID uint, lines []model.CartLine) (*model.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var (
		items     []model.OrderItem
		subtotal  float64
		gstAmount float64
	)

	for _, line := range lines {
		if line.QuantityKg < minOrderQuantityKg {
			logger.Warn("Rejecting order line below minimum quantity", map[string]interface{}{
				"sku":         line.SKU,
				"quantity_kg": line.QuantityKg,
			})
			return nil, fmt.Errorf("%w: %s (%.2f kg)", ErrBelowMinQuantity, line.SKU, line.QuantityKg)
		}

		product, err := s.productRepo.FindBySKU(line.SKU)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownSKU, line.SKU)
			}
			return nil, err
		}

		lineTotal := product.PricePerKg * line.QuantityKg
		subtotal += lineTotal
		gstAmount += lineTotal * product.GSTPercent / 100

		items = append(items, model.OrderItem{
			SKU:        product.SKU,
			Name:       product.Name,
			QuantityKg: line.QuantityKg,
			PricePerKg: product.PricePerKg,
			GSTPercent: product.GSTPercent,
			LineTotal:  lineTotal,
		})
	}

	order := &model.Order{
		Number:      generateOrderNumber(),
		UserID:      userID,
		Status:      model.OrderStatusPending,
		Subtotal:    subtotal,
		GSTAmount:   gstAmount,
		TotalAmount: subtotal + gstAmount,
		Items:       items,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"number":       order.Number,
		"user_id":      userID,
		"item_count":   len(items),
		"total_amount": order.TotalAmount,
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrderByNumber(userID uint, number string, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !isAdmin && order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(number string, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, status)
	}

	order, err := s.orderRepo.FindByNumber(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = status
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"number": order.Number,
		"status": status,
	})
	return order, nil
}

func generateOrderNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return "ORD-" + fragment
}
