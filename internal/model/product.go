package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a paddy variety traded by the center (e.g. MR297 seed paddy).
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"product_id"`
	ProductCode string    `gorm:"uniqueIndex;not null" json:"product_code"`
	ProductName string    `gorm:"not null" json:"product_name"`
	ProductType string    `gorm:"not null" json:"product_type"` // BENIH (seed) | BERAS (rice)
	Variety     string    `gorm:"not null" json:"variety"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "paddy_products" }
