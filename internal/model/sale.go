package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale payment statuses.
const (
	SalePaymentPending = "pending"
	SalePaymentPaid    = "paid"
)

// SalesTransaction records one dispatch of paddy to a manufacturer. The
// Mappings set ties the sale back to the purchase receipts (or split
// children) it consumed, with the exact quantity drawn from each.
type SalesTransaction struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sales_id"`
	SalesNumber    string    `gorm:"uniqueIndex;not null" json:"sales_number"`
	SeasonID       uuid.UUID `gorm:"type:uuid;not null;index" json:"season_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ManufacturerID uuid.UUID `gorm:"type:uuid;not null;index" json:"manufacturer_id"`
	SaleDate       time.Time `gorm:"not null;index" json:"sale_date"`

	GrossWeightKg  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gross_weight_kg"`
	TareWeightKg   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tare_weight_kg"`
	NetWeightKg    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_weight_kg"`
	SalePricePerKg decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"sale_price_per_kg"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`

	VehicleNumber *string `json:"vehicle_number"`
	DriverName    *string `json:"driver_name"`
	Notes         *string `json:"notes"`

	Status        string `gorm:"not null;default:'completed'" json:"status"`
	PaymentStatus string `gorm:"not null;default:'pending'" json:"payment_status"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Manufacturer *Manufacturer          `gorm:"foreignKey:ManufacturerID" json:"manufacturer,omitempty"`
	Season       *Season                `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
	Mappings     []SalesPurchaseMapping `gorm:"foreignKey:SalesID" json:"mappings,omitempty"`
}

func (SalesTransaction) TableName() string { return "sales_transactions" }

// SalesPurchaseMapping links one sale to one purchase transaction and records
// the exact quantity drawn from it. The sum of mapped quantities for a
// purchase can never exceed its net weight; the sale service enforces this
// under a row lock at creation time.
type SalesPurchaseMapping struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"mapping_id"`
	SalesID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"sales_id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	QuantityKg    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity_kg"`
	GradeID       uuid.UUID       `gorm:"type:uuid;not null" json:"grade_id"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`

	Purchase *PurchaseTransaction `gorm:"foreignKey:TransactionID" json:"purchase,omitempty"`
}

func (SalesPurchaseMapping) TableName() string { return "sales_purchase_mapping" }
