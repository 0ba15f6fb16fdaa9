package dto

import (
	"paddyledger/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Requests ────────────────────────────────────────────────────────────────

// DeductionItemRequest is one named percentage deduction supplied by the
// weigh-in operator.
type DeductionItemRequest struct {
	Name    string          `json:"name"       validate:"required"`
	Percent decimal.Decimal `json:"percentage" validate:"min=0,max=100"`
}

type CreatePurchaseRequest struct {
	SeasonID string `json:"season_id" validate:"required,uuid"`
	FarmerID string `json:"farmer_id" validate:"required,uuid"`
	// GradeID is optional; when omitted the default active grade is resolved.
	GradeID   *string `json:"grade_id"  validate:"omitempty,uuid"`
	ProductID string  `json:"product_id" validate:"required,uuid"`

	GrossWeightKg   decimal.Decimal `json:"gross_weight_kg" validate:"required"`
	TareWeightKg    decimal.Decimal `json:"tare_weight_kg"`
	MoistureContent decimal.Decimal `json:"moisture_content" validate:"min=0,max=100"`
	ForeignMatter   decimal.Decimal `json:"foreign_matter"   validate:"min=0,max=100"`

	BasePricePerKg decimal.Decimal `json:"base_price_per_kg" validate:"required"`

	// DeductionConfig overrides the moisture/foreign-matter penalty formula
	// when present. Order is preserved.
	DeductionConfig []DeductionItemRequest `json:"deduction_config" validate:"omitempty,dive"`

	VehicleNumber *string `json:"vehicle_number"`
	DriverName    *string `json:"driver_name"`

	CreatedBy string `json:"created_by" validate:"required,uuid"`
}

type SplitPurchaseRequest struct {
	SplitWeightKg decimal.Decimal `json:"split_weight_kg" validate:"required"`
	ActorID       string          `json:"actor_id"        validate:"required,uuid"`
}

type ChangeFarmerRequest struct {
	NewFarmerID string `json:"new_farmer_id" validate:"required,uuid"`
	ActorID     string `json:"actor_id"      validate:"required,uuid"`
	Reason      string `json:"reason"        validate:"required,min=5"`
}

type UpdatePaymentRequest struct {
	PaymentStatus    string  `json:"payment_status" validate:"required,oneof=unpaid partial paid"`
	PaymentReference *string `json:"payment_reference"`
	ActorID          string  `json:"actor_id" validate:"required,uuid"`
}

// CancelPendingLorryRequest records an aborted weigh-in session as an
// auditable cancelled placeholder instead of discarding it.
type CancelPendingLorryRequest struct {
	SeasonID      string          `json:"season_id"  validate:"required,uuid"`
	FarmerID      string          `json:"farmer_id"  validate:"required,uuid"`
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	GrossWeightKg decimal.Decimal `json:"gross_weight_kg"`
	VehicleNumber *string         `json:"vehicle_number"`
	DriverName    *string         `json:"driver_name"`
	Reason        string          `json:"reason"   validate:"required,min=5"`
	ActorID       string          `json:"actor_id" validate:"required,uuid"`
}

// PurchaseFilter is bound from the query string of GET /v1/purchases.
type PurchaseFilter struct {
	SeasonID string `form:"season_id" validate:"omitempty,uuid"`
	FarmerID string `form:"farmer_id" validate:"omitempty,uuid"`
	Status   string `form:"status"    validate:"omitempty,oneof=completed cancelled"`
	DateFrom string `form:"date_from"` // YYYY-MM-DD
	DateTo   string `form:"date_to"`
	Limit    int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

// ComputedAmounts echoes back every derived figure of a purchase so the UI
// can render the receipt without a second round trip.
type ComputedAmounts struct {
	NetWeightKg          decimal.Decimal `json:"net_weight_kg"`
	EffectiveWeightKg    decimal.Decimal `json:"effective_weight_kg"`
	DeductedWeightKg     decimal.Decimal `json:"deducted_weight_kg"`
	DeductionRate        decimal.Decimal `json:"deduction_rate"`
	MoisturePenalty      decimal.Decimal `json:"moisture_penalty"`
	ForeignMatterPenalty decimal.Decimal `json:"foreign_matter_penalty"`
	FinalPricePerKg      decimal.Decimal `json:"final_price_per_kg"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
}

type CreatePurchaseResponse struct {
	TransactionID   string          `json:"transaction_id"`
	ReceiptNumber   string          `json:"receipt_number"`
	ComputedAmounts ComputedAmounts `json:"computed_amounts"`
}

type SplitPurchaseResponse struct {
	Child1 PurchaseResponse `json:"child1"`
	Child2 PurchaseResponse `json:"child2"`
}

// PurchaseResponse is the full purchase record as exposed to the UI layer.
type PurchaseResponse struct {
	TransactionID       string          `json:"transaction_id"`
	ReceiptNumber       string          `json:"receipt_number"`
	SeasonID            string          `json:"season_id"`
	FarmerID            string          `json:"farmer_id"`
	FarmerName          string          `json:"farmer_name,omitempty"`
	FarmerCode          string          `json:"farmer_code,omitempty"`
	GradeID             string          `json:"grade_id"`
	GradeName           string          `json:"grade_name,omitempty"`
	ProductID           string          `json:"product_id"`
	TransactionDate     string          `json:"transaction_date"`
	GrossWeightKg       decimal.Decimal `json:"gross_weight_kg"`
	TareWeightKg        decimal.Decimal `json:"tare_weight_kg"`
	NetWeightKg         decimal.Decimal `json:"net_weight_kg"`
	EffectiveWeightKg   decimal.Decimal `json:"effective_weight_kg"`
	DeductionRate       decimal.Decimal `json:"deduction_rate"`
	FinalPricePerKg     decimal.Decimal `json:"final_price_per_kg"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"payment_status"`
	ParentTransactionID *string         `json:"parent_transaction_id,omitempty"`
}

// UnsoldPurchaseResponse feeds the sale-allocation UI: one row per receipt
// that still has weight available for sale.
type UnsoldPurchaseResponse struct {
	TransactionID       string          `json:"transaction_id"`
	ReceiptNumber       string          `json:"receipt_number"`
	TransactionDate     string          `json:"transaction_date"`
	FarmerCode          string          `json:"farmer_code"`
	FarmerName          string          `json:"farmer_name"`
	GradeID             string          `json:"grade_id"`
	GradeName           string          `json:"grade_name"`
	ProductID           string          `json:"product_id"`
	OriginalWeightKg    decimal.Decimal `json:"original_weight_kg"`
	SoldQuantityKg      decimal.Decimal `json:"sold_quantity_kg"`
	AvailableQuantityKg decimal.Decimal `json:"available_quantity_kg"`
	IsSplitChild        bool            `json:"is_split_child"`
}

type PurchaseStatsResponse struct {
	TotalTransactions int64           `json:"total_transactions"`
	TotalNetWeightKg  decimal.Decimal `json:"total_net_weight_kg"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// FromPurchase maps a model row into the response shape.
func FromPurchase(p *model.PurchaseTransaction) PurchaseResponse {
	resp := PurchaseResponse{
		TransactionID:     p.ID.String(),
		ReceiptNumber:     p.ReceiptNumber,
		SeasonID:          p.SeasonID.String(),
		FarmerID:          p.FarmerID.String(),
		GradeID:           p.GradeID.String(),
		ProductID:         p.ProductID.String(),
		TransactionDate:   p.TransactionDate.Format("2006-01-02T15:04:05Z07:00"),
		GrossWeightKg:     p.GrossWeightKg,
		TareWeightKg:      p.TareWeightKg,
		NetWeightKg:       p.NetWeightKg,
		EffectiveWeightKg: p.EffectiveWeightKg,
		DeductionRate:     p.DeductionRate,
		FinalPricePerKg:   p.FinalPricePerKg,
		TotalAmount:       p.TotalAmount,
		Status:            p.Status,
		PaymentStatus:     p.PaymentStatus,
	}
	if p.ParentTransactionID != nil {
		s := p.ParentTransactionID.String()
		resp.ParentTransactionID = &s
	}
	if p.Farmer != nil {
		resp.FarmerName = p.Farmer.FullName
		resp.FarmerCode = p.Farmer.FarmerCode
	}
	if p.Grade != nil {
		resp.GradeName = p.Grade.GradeName
	}
	return resp
}
