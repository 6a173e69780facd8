package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/narayanji/distributor-app/internal/app/model"
	"github.com/narayanji/distributor-app/internal/app/service"
	apperrors "github.com/narayanji/distributor-app/internal/errors"
	"github.com/narayanji/distributor-app/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Empty or missing items fall through to the service's empty-order check so
// the client sees ORDER_EMPTY_CART rather than a generic validation error.
type createOrderRequest struct {
	Items []model.CartLine `json:"items"`
}

// CreateOrder handles POST /orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Order items are required")
		return
	}

	order, err := ctrl.orderService.CreateOrder(userID, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			apperrors.BadRequest(c, apperrors.OrderEmptyCart, "Cannot submit an empty cart")
		case errors.Is(err, service.ErrBelowMinQuantity):
			apperrors.BadRequest(c, apperrors.OrderBelowMinQuantity, err.Error())
		case errors.Is(err, service.ErrUnknownSKU):
			apperrors.BadRequest(c, apperrors.OrderUnknownSKU, err.Error())
		default:
			middleware.GetLoggerFromContext(c).Error("Failed to create order", err, nil)
			apperrors.InternalError(c, "Could not submit the order. Please try again")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListOrders handles GET /orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list orders", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder handles GET /orders/:number
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	order, err := ctrl.orderService.GetOrderByNumber(userID, c.Param("number"), middleware.IsAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrNotOrderOwner):
			apperrors.Forbidden(c, "")
		default:
			middleware.GetLoggerFromContext(c).Error("Failed to get order", err, nil)
			apperrors.RespondWithParsedError(c, err, "order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

type updateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PUT /admin/orders/:number/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Order status is required")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(c.Param("number"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, err.Error())
		default:
			middleware.GetLoggerFromContext(c).Error("Failed to update order status", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
