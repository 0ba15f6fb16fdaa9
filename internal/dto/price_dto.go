package dto

import (
	"paddyledger/internal/model"

	"github.com/shopspring/decimal"
)

type ProductPriceRequest struct {
	ProductID          string          `json:"product_id" validate:"required,uuid"`
	OpeningPricePerTon decimal.Decimal `json:"opening_price_per_ton" validate:"required"`
}

// InitializePricesRequest seeds one price row per product for a new season.
type InitializePricesRequest struct {
	Prices    []ProductPriceRequest `json:"prices" validate:"required,min=1,dive"`
	CreatedBy string                `json:"created_by" validate:"required,uuid"`
}

type UpdatePriceRequest struct {
	PricePerTon decimal.Decimal `json:"price_per_ton" validate:"required"`
	Notes       *string         `json:"notes"`
	CreatedBy   string          `json:"created_by" validate:"required,uuid"`
}

type CopyPricesRequest struct {
	SourceSeasonID string `json:"source_season_id" validate:"required,uuid"`
	CreatedBy      string `json:"created_by" validate:"required,uuid"`
}

type SeasonProductPriceResponse struct {
	SeasonID           string          `json:"season_id"`
	ProductID          string          `json:"product_id"`
	ProductCode        string          `json:"product_code,omitempty"`
	ProductName        string          `json:"product_name,omitempty"`
	OpeningPricePerTon decimal.Decimal `json:"opening_price_per_ton"`
	CurrentPricePerTon decimal.Decimal `json:"current_price_per_ton"`
}

type PriceHistoryResponse struct {
	PriceHistoryID string          `json:"price_history_id"`
	PricePerTon    decimal.Decimal `json:"price_per_ton"`
	EffectiveDate  string          `json:"effective_date"`
	Notes          *string         `json:"notes"`
}

func FromSeasonProductPrice(p *model.SeasonProductPrice) SeasonProductPriceResponse {
	resp := SeasonProductPriceResponse{
		SeasonID:           p.SeasonID.String(),
		ProductID:          p.ProductID.String(),
		OpeningPricePerTon: p.OpeningPricePerTon,
		CurrentPricePerTon: p.CurrentPricePerTon,
	}
	if p.Product != nil {
		resp.ProductCode = p.Product.ProductCode
		resp.ProductName = p.Product.ProductName
	}
	return resp
}

func FromPriceHistory(h *model.PriceHistory) PriceHistoryResponse {
	return PriceHistoryResponse{
		PriceHistoryID: h.ID.String(),
		PricePerTon:    h.PricePerTon,
		EffectiveDate:  h.EffectiveDate.Format("2006-01-02T15:04:05Z07:00"),
		Notes:          h.Notes,
	}
}
