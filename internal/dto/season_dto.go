package dto

import (
	"paddyledger/internal/model"

	"github.com/shopspring/decimal"
)

type DeductionPresetRequest struct {
	Name  string                 `json:"name"  validate:"required"`
	Items []DeductionItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateSeasonRequest struct {
	SeasonCode         string                   `json:"season_code"  validate:"required"`
	SeasonName         string                   `json:"season_name"  validate:"required"`
	Year               int                      `json:"year"         validate:"required,min=2000"`
	SeasonNumber       int                      `json:"season_number" validate:"required,min=1"`
	Mode               string                   `json:"mode"         validate:"omitempty,oneof=LIVE DEMO"`
	OpeningPricePerTon decimal.Decimal          `json:"opening_price_per_ton" validate:"required"`
	DeductionPresets   []DeductionPresetRequest `json:"deduction_presets" validate:"omitempty,dive"`
	StartDate          *string                  `json:"start_date"` // YYYY-MM-DD
	EndDate            *string                  `json:"end_date"`
	TargetQuantityKg   decimal.Decimal          `json:"target_quantity_kg"`
	Notes              *string                  `json:"notes"`
	// Activate makes the new season active immediately, closing all others.
	Activate bool `json:"activate"`
}

type UpdateSeasonRequest struct {
	SeasonName         *string          `json:"season_name"`
	CurrentPricePerTon *decimal.Decimal `json:"current_price_per_ton"`
	StartDate          *string          `json:"start_date"`
	EndDate            *string          `json:"end_date"`
	TargetQuantityKg   *decimal.Decimal `json:"target_quantity_kg"`
	Notes              *string          `json:"notes"`
}

type UpdateDeductionConfigRequest struct {
	Presets []DeductionPresetRequest `json:"presets" validate:"required,dive"`
}

type SeasonFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=planned active closed cancelled"`
	Mode   string `form:"mode"   validate:"omitempty,oneof=LIVE DEMO"`
	Year   int    `form:"year"`
}

type SeasonResponse struct {
	SeasonID           string                `json:"season_id"`
	SeasonCode         string                `json:"season_code"`
	SeasonName         string                `json:"season_name"`
	Year               int                   `json:"year"`
	SeasonNumber       int                   `json:"season_number"`
	Mode               string                `json:"mode"`
	OpeningPricePerTon decimal.Decimal       `json:"opening_price_per_ton"`
	CurrentPricePerTon decimal.Decimal       `json:"current_price_per_ton"`
	DeductionConfig    model.DeductionConfig `json:"deduction_config"`
	Status             string                `json:"status"`
	StartDate          *string               `json:"start_date"`
	EndDate            *string               `json:"end_date"`
	TargetQuantityKg   decimal.Decimal       `json:"target_quantity_kg"`
	Notes              *string               `json:"notes"`
	ClosedAt           *string               `json:"closed_at"`
}

// FromSeason maps a model row into the response shape.
func FromSeason(s *model.Season) SeasonResponse {
	resp := SeasonResponse{
		SeasonID:           s.ID.String(),
		SeasonCode:         s.SeasonCode,
		SeasonName:         s.SeasonName,
		Year:               s.Year,
		SeasonNumber:       s.SeasonNumber,
		Mode:               s.Mode,
		OpeningPricePerTon: s.OpeningPricePerTon,
		CurrentPricePerTon: s.CurrentPricePerTon,
		DeductionConfig:    s.DeductionConfig,
		Status:             s.Status,
		TargetQuantityKg:   s.TargetQuantityKg,
		Notes:              s.Notes,
	}
	if s.StartDate != nil {
		d := s.StartDate.Format("2006-01-02")
		resp.StartDate = &d
	}
	if s.EndDate != nil {
		d := s.EndDate.Format("2006-01-02")
		resp.EndDate = &d
	}
	if s.ClosedAt != nil {
		d := s.ClosedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ClosedAt = &d
	}
	return resp
}
