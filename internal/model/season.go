package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Season operating modes. Transactions recorded under a DEMO season never
// enter LIVE inventory or financial aggregates.
const (
	SeasonModeLive = "LIVE"
	SeasonModeDemo = "DEMO"
)

// Season statuses. At most one season is active at any time; activating a
// season closes every other active one.
const (
	SeasonStatusPlanned   = "planned"
	SeasonStatusActive    = "active"
	SeasonStatusClosed    = "closed"
	SeasonStatusCancelled = "cancelled"
)

// Season is a bounded harvesting period with its own pricing and deduction
// configuration. Seasons are never hard-deleted.
type Season struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"season_id"`
	SeasonCode         string          `gorm:"uniqueIndex;not null" json:"season_code"`
	SeasonName         string          `gorm:"not null" json:"season_name"`
	Year               int             `gorm:"not null;index" json:"year"`
	SeasonNumber       int             `gorm:"not null" json:"season_number"`
	Mode               string          `gorm:"not null;default:'LIVE'" json:"mode"` // LIVE | DEMO
	OpeningPricePerTon decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"opening_price_per_ton"`
	CurrentPricePerTon decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"current_price_per_ton"`
	DeductionConfig    DeductionConfig `gorm:"type:jsonb" json:"deduction_config"`
	Status             string          `gorm:"not null;default:'planned';index" json:"status"`
	StartDate          *time.Time      `json:"start_date"`
	EndDate            *time.Time      `json:"end_date"`
	TargetQuantityKg   decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"target_quantity_kg"`
	Notes              *string         `json:"notes"`
	ClosedAt           *time.Time      `json:"closed_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (Season) TableName() string { return "harvesting_seasons" }

// IsDemo reports whether the season runs in demonstration mode.
func (s *Season) IsDemo() bool { return s.Mode == SeasonModeDemo }
