package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleDistributor UserRole = "distributor"
	RoleAdmin       UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Phone        string         `gorm:"uniqueIndex;not null" json:"phone"`
	Name         string         `json:"name"`
	Email        string         `gorm:"index" json:"email,omitempty"`
	PasswordHash string         `json:"-"` // set for back-office admins only
	Role         UserRole       `gorm:"type:varchar(20);default:'distributor'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
