package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase transaction statuses.
const (
	PurchaseStatusCompleted = "completed"
	PurchaseStatusCancelled = "cancelled"
)

// Purchase payment statuses.
const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// PurchaseTransaction is the core ledger entity: one weighed delivery of
// paddy bought from a farmer, or a split child carved out of such a delivery.
//
// A purchase with ParentTransactionID set is a split child; splitting a
// receipt retires the parent from future sales while its own weight keeps
// counting toward historical totals. Whether a purchase is a split parent is
// derived from the existence of children, never stored. Rows are never
// physically deleted — cancellation writes status=cancelled.
type PurchaseTransaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"transaction_id"`
	ReceiptNumber   string    `gorm:"uniqueIndex;not null" json:"receipt_number"`
	SeasonID        uuid.UUID `gorm:"type:uuid;not null;index" json:"season_id"`
	FarmerID        uuid.UUID `gorm:"type:uuid;not null;index" json:"farmer_id"`
	GradeID         uuid.UUID `gorm:"type:uuid;not null" json:"grade_id"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	TransactionDate time.Time `gorm:"not null;index" json:"transaction_date"`

	GrossWeightKg     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"gross_weight_kg"`
	TareWeightKg      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tare_weight_kg"`
	NetWeightKg       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_weight_kg"`
	EffectiveWeightKg decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"effective_weight_kg"`

	MoistureContent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"moisture_content"`
	ForeignMatter   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"foreign_matter"`

	BasePricePerKg       decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"base_price_per_kg"`
	MoisturePenalty      decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"moisture_penalty"`
	ForeignMatterPenalty decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"foreign_matter_penalty"`
	DeductionConfig      DeductionItems  `gorm:"type:jsonb" json:"deduction_config"`
	DeductionRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"deduction_rate"`
	FinalPricePerKg      decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"final_price_per_kg"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`

	VehicleNumber *string `json:"vehicle_number"`
	DriverName    *string `json:"driver_name"`

	Status           string  `gorm:"not null;default:'completed';index" json:"status"`
	PaymentStatus    string  `gorm:"not null;default:'unpaid'" json:"payment_status"`
	PaymentReference *string `json:"payment_reference"`

	// ParentTransactionID links a split child to the receipt it was carved
	// from. Depth is one in practice: split parents cannot be split again.
	ParentTransactionID *uuid.UUID `gorm:"type:uuid;index" json:"parent_transaction_id"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Farmer *Farmer `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	Grade  *Grade  `gorm:"foreignKey:GradeID" json:"grade,omitempty"`
	Season *Season `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
}

func (PurchaseTransaction) TableName() string { return "purchase_transactions" }

// IsSplitChild reports whether this purchase was carved out of a parent
// receipt.
func (p *PurchaseTransaction) IsSplitChild() bool { return p.ParentTransactionID != nil }

// ReceiptCounter backs the per-season purchase receipt sequence. The row is
// locked FOR UPDATE inside the purchase-insert transaction so two concurrent
// purchases can never reserve the same number.
type ReceiptCounter struct {
	SeasonID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

func (ReceiptCounter) TableName() string { return "receipt_counters" }
