package dto

import (
	"paddyledger/internal/model"

	"github.com/shopspring/decimal"
)

// PurchaseAllocationRequest requests quantityKg to be drawn from one purchase
// receipt. When the quantity is below the receipt's remaining weight the sale
// service splits the receipt and maps the sale to the carved-out child.
type PurchaseAllocationRequest struct {
	PurchaseTransactionID string          `json:"purchase_transaction_id" validate:"required,uuid"`
	QuantityKg            decimal.Decimal `json:"quantity_kg"             validate:"required"`
}

type CreateSaleRequest struct {
	SeasonID       string `json:"season_id"       validate:"required,uuid"`
	ProductID      string `json:"product_id"      validate:"required,uuid"`
	ManufacturerID string `json:"manufacturer_id" validate:"required,uuid"`

	GrossWeightKg  decimal.Decimal `json:"gross_weight_kg"   validate:"required"`
	TareWeightKg   decimal.Decimal `json:"tare_weight_kg"`
	SalePricePerKg decimal.Decimal `json:"sale_price_per_kg" validate:"required"`

	Allocations []PurchaseAllocationRequest `json:"allocations" validate:"required,min=1,dive"`

	VehicleNumber *string `json:"vehicle_number"`
	DriverName    *string `json:"driver_name"`
	Notes         *string `json:"notes"`

	CreatedBy string `json:"created_by" validate:"required,uuid"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	SeasonID       string `form:"season_id"       validate:"omitempty,uuid"`
	ManufacturerID string `form:"manufacturer_id" validate:"omitempty,uuid"`
	Status         string `form:"status"          validate:"omitempty,oneof=completed cancelled"`
	PaymentStatus  string `form:"payment_status"  validate:"omitempty,oneof=pending paid"`
	DateFrom       string `form:"date_from"`
	DateTo         string `form:"date_to"`
	Limit          int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type CreateSaleResponse struct {
	SalesID     string          `json:"sales_id"`
	SalesNumber string          `json:"sales_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	// SplitsPerformed counts receipts that were auto-split to match the
	// requested allocation exactly.
	SplitsPerformed int `json:"splits_performed"`
	ReceiptsCount   int `json:"receipts_count"`
}

// MappedReceiptResponse is one consumed purchase receipt inside a sale.
type MappedReceiptResponse struct {
	TransactionID    string          `json:"transaction_id"`
	ReceiptNumber    string          `json:"receipt_number"`
	QuantityKg       decimal.Decimal `json:"quantity_kg"`
	OriginalWeightKg decimal.Decimal `json:"original_weight_kg"`
	FarmerName       string          `json:"farmer_name,omitempty"`
	FarmerCode       string          `json:"farmer_code,omitempty"`
}

type SaleResponse struct {
	SalesID          string                  `json:"sales_id"`
	SalesNumber      string                  `json:"sales_number"`
	SeasonID         string                  `json:"season_id"`
	ProductID        string                  `json:"product_id"`
	ManufacturerID   string                  `json:"manufacturer_id"`
	ManufacturerName string                  `json:"manufacturer_name,omitempty"`
	SaleDate         string                  `json:"sale_date"`
	GrossWeightKg    decimal.Decimal         `json:"gross_weight_kg"`
	TareWeightKg     decimal.Decimal         `json:"tare_weight_kg"`
	NetWeightKg      decimal.Decimal         `json:"net_weight_kg"`
	SalePricePerKg   decimal.Decimal         `json:"sale_price_per_kg"`
	TotalAmount      decimal.Decimal         `json:"total_amount"`
	Status           string                  `json:"status"`
	PaymentStatus    string                  `json:"payment_status"`
	PurchaseReceipts []MappedReceiptResponse `json:"purchase_receipts,omitempty"`
}

type SaleStatsResponse struct {
	TotalTransactions int64           `json:"total_transactions"`
	TotalNetWeightKg  decimal.Decimal `json:"total_net_weight_kg"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// FromSale maps a model row (with preloaded mappings) into the response shape.
func FromSale(s *model.SalesTransaction) SaleResponse {
	resp := SaleResponse{
		SalesID:        s.ID.String(),
		SalesNumber:    s.SalesNumber,
		SeasonID:       s.SeasonID.String(),
		ProductID:      s.ProductID.String(),
		ManufacturerID: s.ManufacturerID.String(),
		SaleDate:       s.SaleDate.Format("2006-01-02T15:04:05Z07:00"),
		GrossWeightKg:  s.GrossWeightKg,
		TareWeightKg:   s.TareWeightKg,
		NetWeightKg:    s.NetWeightKg,
		SalePricePerKg: s.SalePricePerKg,
		TotalAmount:    s.TotalAmount,
		Status:         s.Status,
		PaymentStatus:  s.PaymentStatus,
	}
	if s.Manufacturer != nil {
		resp.ManufacturerName = s.Manufacturer.CompanyName
	}
	for _, m := range s.Mappings {
		mapped := MappedReceiptResponse{
			TransactionID: m.TransactionID.String(),
			QuantityKg:    m.QuantityKg,
		}
		if m.Purchase != nil {
			mapped.ReceiptNumber = m.Purchase.ReceiptNumber
			mapped.OriginalWeightKg = m.Purchase.NetWeightKg
			if m.Purchase.Farmer != nil {
				mapped.FarmerName = m.Purchase.Farmer.FullName
				mapped.FarmerCode = m.Purchase.Farmer.FarmerCode
			}
		}
		resp.PurchaseReceipts = append(resp.PurchaseReceipts, mapped)
	}
	return resp
}
