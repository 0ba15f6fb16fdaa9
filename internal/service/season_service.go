package service

import (
	"context"
	"errors"
	"time"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/model"
	"paddyledger/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func presetTotal(p dto.DeductionPresetRequest) decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Percent)
	}
	return total
}

type SeasonService interface {
	Create(ctx context.Context, req dto.CreateSeasonRequest) (*dto.SeasonResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSeasonRequest) (*dto.SeasonResponse, error)
	UpdateDeductionConfig(ctx context.Context, id uuid.UUID, req dto.UpdateDeductionConfigRequest) (*dto.SeasonResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*dto.SeasonResponse, error)
	Close(ctx context.Context, id uuid.UUID) (*dto.SeasonResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SeasonResponse, error)
	GetActive(ctx context.Context) (*dto.SeasonResponse, error)
	List(ctx context.Context, filter dto.SeasonFilter) ([]dto.SeasonResponse, error)
}

type seasonService struct {
	repo repository.SeasonRepository
}

func NewSeasonService(repo repository.SeasonRepository) SeasonService {
	return &seasonService{repo: repo}
}

func presetsFromRequest(presets []dto.DeductionPresetRequest) model.DeductionConfig {
	cfg := model.DeductionConfig{Version: 1}
	for _, p := range presets {
		preset := model.DeductionPreset{Name: p.Name}
		for _, item := range p.Items {
			preset.Items = append(preset.Items, model.DeductionItem{Name: item.Name, Percent: item.Percent})
		}
		cfg.Presets = append(cfg.Presets, preset)
	}
	return cfg
}

func (s *seasonService) Create(ctx context.Context, req dto.CreateSeasonRequest) (*dto.SeasonResponse, error) {
	if _, err := s.repo.FindByCode(ctx, req.SeasonCode); err == nil {
		return nil, apierror.Conflict("season code %s already exists", req.SeasonCode)
	}
	if !req.OpeningPricePerTon.IsPositive() {
		return nil, apierror.Validation("opening price must be positive, got %s", req.OpeningPricePerTon)
	}

	mode := req.Mode
	if mode == "" {
		mode = model.SeasonModeLive
	}

	season := model.Season{
		SeasonCode:         req.SeasonCode,
		SeasonName:         req.SeasonName,
		Year:               req.Year,
		SeasonNumber:       req.SeasonNumber,
		Mode:               mode,
		OpeningPricePerTon: req.OpeningPricePerTon,
		CurrentPricePerTon: req.OpeningPricePerTon,
		DeductionConfig:    presetsFromRequest(req.DeductionPresets),
		Status:             model.SeasonStatusPlanned,
		TargetQuantityKg:   req.TargetQuantityKg,
		Notes:              req.Notes,
	}
	if req.StartDate != nil {
		d, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, apierror.Validation("start_date: %v", err)
		}
		season.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, apierror.Validation("end_date: %v", err)
		}
		season.EndDate = &d
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Activate {
			season.Status = model.SeasonStatusActive
		}
		if err := s.repo.Create(ctx, tx, &season); err != nil {
			return err
		}
		if req.Activate {
			return s.repo.CloseAllActiveTx(ctx, tx, season.ID)
		}
		return nil
	})
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}

	log.Info().Str("season_code", season.SeasonCode).Str("mode", season.Mode).
		Bool("activated", req.Activate).Msg("season created")

	resp := dto.FromSeason(&season)
	return &resp, nil
}

func (s *seasonService) find(ctx context.Context, id uuid.UUID) (*model.Season, error) {
	season, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("season %s not found", id)
		}
		return nil, apierror.Storage(err)
	}
	return season, nil
}

func (s *seasonService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSeasonRequest) (*dto.SeasonResponse, error) {
	season, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if season.Status == model.SeasonStatusClosed || season.Status == model.SeasonStatusCancelled {
		return nil, apierror.Conflict("season %s is %s and cannot be updated", season.SeasonCode, season.Status)
	}

	if req.SeasonName != nil {
		season.SeasonName = *req.SeasonName
	}
	if req.CurrentPricePerTon != nil {
		if !req.CurrentPricePerTon.IsPositive() {
			return nil, apierror.Validation("current price must be positive, got %s", req.CurrentPricePerTon)
		}
		season.CurrentPricePerTon = *req.CurrentPricePerTon
	}
	if req.StartDate != nil {
		d, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, apierror.Validation("start_date: %v", err)
		}
		season.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, apierror.Validation("end_date: %v", err)
		}
		season.EndDate = &d
	}
	if req.TargetQuantityKg != nil {
		season.TargetQuantityKg = *req.TargetQuantityKg
	}
	if req.Notes != nil {
		season.Notes = req.Notes
	}

	if err := s.repo.Save(ctx, season); err != nil {
		return nil, apierror.Storage(err)
	}
	resp := dto.FromSeason(season)
	return &resp, nil
}

func (s *seasonService) UpdateDeductionConfig(ctx context.Context, id uuid.UUID, req dto.UpdateDeductionConfigRequest) (*dto.SeasonResponse, error) {
	season, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if season.Status == model.SeasonStatusClosed || season.Status == model.SeasonStatusCancelled {
		return nil, apierror.Conflict("season %s is %s and cannot be updated", season.SeasonCode, season.Status)
	}

	for _, preset := range req.Presets {
		total := presetTotal(preset)
		if total.GreaterThan(oneHundred) {
			return nil, apierror.Validation("preset %q: total deduction rate %s%% exceeds 100%%", preset.Name, total)
		}
	}

	season.DeductionConfig = presetsFromRequest(req.Presets)
	if err := s.repo.Save(ctx, season); err != nil {
		return nil, apierror.Storage(err)
	}
	resp := dto.FromSeason(season)
	return &resp, nil
}

// Activate makes the season the single active one, closing every other
// active season in the same transaction.
func (s *seasonService) Activate(ctx context.Context, id uuid.UUID) (*dto.SeasonResponse, error) {
	season, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if season.Status == model.SeasonStatusCancelled {
		return nil, apierror.Conflict("season %s is cancelled", season.SeasonCode)
	}
	if season.Status == model.SeasonStatusActive {
		resp := dto.FromSeason(season)
		return &resp, nil
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CloseAllActiveTx(ctx, tx, id); err != nil {
			return err
		}
		season.Status = model.SeasonStatusActive
		season.ClosedAt = nil
		if tx == nil {
			return s.repo.Save(ctx, season)
		}
		return tx.WithContext(ctx).Save(season).Error
	})
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}

	log.Info().Str("season_code", season.SeasonCode).Msg("season activated")
	resp := dto.FromSeason(season)
	return &resp, nil
}

func (s *seasonService) Close(ctx context.Context, id uuid.UUID) (*dto.SeasonResponse, error) {
	season, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if season.Status == model.SeasonStatusClosed {
		resp := dto.FromSeason(season)
		return &resp, nil
	}
	if season.Status == model.SeasonStatusCancelled {
		return nil, apierror.Conflict("season %s is cancelled", season.SeasonCode)
	}

	now := time.Now()
	season.Status = model.SeasonStatusClosed
	season.ClosedAt = &now
	if err := s.repo.Save(ctx, season); err != nil {
		return nil, apierror.Storage(err)
	}

	log.Info().Str("season_code", season.SeasonCode).Msg("season closed")
	resp := dto.FromSeason(season)
	return &resp, nil
}

func (s *seasonService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SeasonResponse, error) {
	season, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromSeason(season)
	return &resp, nil
}

func (s *seasonService) GetActive(ctx context.Context) (*dto.SeasonResponse, error) {
	season, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("no active season")
		}
		return nil, apierror.Storage(err)
	}
	resp := dto.FromSeason(season)
	return &resp, nil
}

func (s *seasonService) List(ctx context.Context, filter dto.SeasonFilter) ([]dto.SeasonResponse, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.SeasonResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromSeason(&rows[i]))
	}
	return out, nil
}
