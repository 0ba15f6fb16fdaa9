package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Grade is a paddy quality grade. The active grade with the lowest display
// order acts as the fallback when a purchase is created without an explicit
// grade.
type Grade struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_id"`
	GradeCode        string          `gorm:"uniqueIndex;not null" json:"grade_code"`
	GradeName        string          `gorm:"not null" json:"grade_name"`
	Description      *string         `json:"description"`
	MinMoisture      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"min_moisture_content"`
	MaxMoisture      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"max_moisture_content"`
	MaxForeignMatter decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"max_foreign_matter"`
	DisplayOrder     int             `gorm:"not null;default:0;index" json:"display_order"`
	IsActive         bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Grade) TableName() string { return "paddy_grades" }
