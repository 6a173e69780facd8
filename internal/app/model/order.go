package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID          uint           `gorm:"primarykey" json:"-"`
	Number      string         `gorm:"uniqueIndex;not null" json:"number"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Subtotal    float64        `gorm:"not null" json:"subtotal"`
	GSTAmount   float64        `gorm:"not null" json:"gst_amount"`
	TotalAmount float64        `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the product at submission time. Prices come from the
// catalog, never from the client.
type OrderItem struct {
	ID         uint           `gorm:"primarykey" json:"-"`
	OrderID    uint           `gorm:"not null;index" json:"-"`
	SKU        string         `gorm:"not null;index" json:"sku"`
	Name       string         `gorm:"not null" json:"name"`
	QuantityKg float64        `gorm:"not null" json:"quantity_kg"`
	PricePerKg float64        `gorm:"not null" json:"price_per_kg"`
	GSTPercent float64        `gorm:"not null" json:"gst_percent"`
	LineTotal  float64        `gorm:"not null" json:"line_total"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
