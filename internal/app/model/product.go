package model

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. The storefront never caches products long-term;
// it re-fetches them whenever the cart is loaded.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"-"`
	SKU         string         `gorm:"uniqueIndex;not null" json:"sku"`
	Name        string         `gorm:"not null" json:"name"`
	Category    string         `gorm:"type:varchar(50);index" json:"category"`
	Unit        string         `gorm:"type:varchar(10);default:'kg'" json:"unit"`
	PricePerKg  float64        `gorm:"not null" json:"price_per_kg"`
	GSTPercent  float64        `gorm:"not null;default:5" json:"gst_percent"`
	ImageURL    string         `json:"image_url,omitempty"`
	IsPopular   bool           `gorm:"default:false" json:"is_popular"`
	IsDealOfDay bool           `gorm:"default:false" json:"is_deal_of_day"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
