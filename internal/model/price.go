package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeasonProductPrice holds one (season, product) pair's opening and current
// price per metric ton. CurrentPricePerTon always equals the newest
// PriceHistory entry for the pair; both are written in the same transaction.
type SeasonProductPrice struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"season_product_price_id"`
	SeasonID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_season_product" json:"season_id"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_season_product" json:"product_id"`
	OpeningPricePerTon decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"opening_price_per_ton"`
	CurrentPricePerTon decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"current_price_per_ton"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (SeasonProductPrice) TableName() string { return "season_product_prices" }

// PriceHistory is the append-only record of every price change for a
// (season, product) pair. Rows are never updated or deleted.
type PriceHistory struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"price_history_id"`
	SeasonID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_history_pair" json:"season_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_price_history_pair" json:"product_id"`
	PricePerTon   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_ton"`
	EffectiveDate time.Time       `gorm:"not null" json:"effective_date"`
	Notes         *string         `json:"notes"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (PriceHistory) TableName() string { return "product_price_history" }
