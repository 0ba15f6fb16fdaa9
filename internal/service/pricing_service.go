package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/model"
	"paddyledger/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const priceCacheTTL = 60 * time.Second

var kgPerTon = decimal.NewFromInt(1000)

type PricingService interface {
	// CurrentPrice returns the price per metric ton now in force for the
	// season/product pair.
	CurrentPrice(ctx context.Context, seasonID, productID uuid.UUID) (decimal.Decimal, error)
	// PriceAt resolves the price that was in force at the given instant,
	// for backdated purchases.
	PriceAt(ctx context.Context, seasonID, productID uuid.UUID, at time.Time) (decimal.Decimal, error)
	InitializePrices(ctx context.Context, seasonID uuid.UUID, req dto.InitializePricesRequest) ([]dto.SeasonProductPriceResponse, error)
	UpdatePrice(ctx context.Context, seasonID, productID uuid.UUID, req dto.UpdatePriceRequest) (*dto.SeasonProductPriceResponse, error)
	CopyPrices(ctx context.Context, targetSeasonID uuid.UUID, req dto.CopyPricesRequest) ([]dto.SeasonProductPriceResponse, error)
	History(ctx context.Context, seasonID, productID uuid.UUID) ([]dto.PriceHistoryResponse, error)
	ListSeasonPrices(ctx context.Context, seasonID uuid.UUID) ([]dto.SeasonProductPriceResponse, error)
}

type pricingService struct {
	repo       repository.PriceRepository
	seasonRepo repository.SeasonRepository
	rdb        *redis.Client
}

func NewPricingService(repo repository.PriceRepository, seasonRepo repository.SeasonRepository, rdb *redis.Client) PricingService {
	return &pricingService{repo: repo, seasonRepo: seasonRepo, rdb: rdb}
}

func priceCacheKey(seasonID, productID uuid.UUID) string {
	return fmt.Sprintf("price:%s:%s", seasonID, productID)
}

func (s *pricingService) CurrentPrice(ctx context.Context, seasonID, productID uuid.UUID) (decimal.Decimal, error) {
	// Cache read is best-effort; a Redis outage degrades to DB reads.
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, priceCacheKey(seasonID, productID)).Result(); err == nil {
			if price, perr := decimal.NewFromString(cached); perr == nil {
				return price, nil
			}
		}
	}

	pair, err := s.repo.FindPair(ctx, seasonID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apierror.NotFound("no price configured for season %s product %s", seasonID, productID)
		}
		return decimal.Zero, apierror.Storage(err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, priceCacheKey(seasonID, productID), pair.CurrentPricePerTon.String(), priceCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("price cache write failed")
		}
	}
	return pair.CurrentPricePerTon, nil
}

func (s *pricingService) PriceAt(ctx context.Context, seasonID, productID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	h, err := s.repo.LatestAt(ctx, seasonID, productID, at)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apierror.NotFound("no price in force for season %s product %s at %s", seasonID, productID, at.Format("2006-01-02"))
		}
		return decimal.Zero, apierror.Storage(err)
	}
	return h.PricePerTon, nil
}

// InitializePrices seeds one price row and one opening history entry per
// product, in a single transaction. Re-initializing a pair that already has a
// price is rejected.
func (s *pricingService) InitializePrices(ctx context.Context, seasonID uuid.UUID, req dto.InitializePricesRequest) ([]dto.SeasonProductPriceResponse, error) {
	if _, err := s.seasonRepo.FindByID(ctx, seasonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("season %s not found", seasonID)
		}
		return nil, apierror.Storage(err)
	}
	createdBy, err := uuid.Parse(req.CreatedBy)
	if err != nil {
		return nil, apierror.Validation("created_by: %v", err)
	}

	var out []dto.SeasonProductPriceResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, pr := range req.Prices {
			productID, err := uuid.Parse(pr.ProductID)
			if err != nil {
				return apierror.Validation("product_id %q: %v", pr.ProductID, err)
			}
			if !pr.OpeningPricePerTon.IsPositive() {
				return apierror.Validation("opening price for product %s must be positive", pr.ProductID)
			}
			if existing, err := s.repo.FindPair(ctx, seasonID, productID); err == nil && existing != nil {
				return apierror.Conflict("season %s product %s already has a price", seasonID, productID)
			}

			row := &model.SeasonProductPrice{
				SeasonID:           seasonID,
				ProductID:          productID,
				OpeningPricePerTon: pr.OpeningPricePerTon,
				CurrentPricePerTon: pr.OpeningPricePerTon,
			}
			if err := s.repo.UpsertCurrentTx(ctx, tx, row); err != nil {
				return err
			}
			note := "opening price"
			if err := s.repo.AppendHistoryTx(ctx, tx, &model.PriceHistory{
				SeasonID:      seasonID,
				ProductID:     productID,
				PricePerTon:   pr.OpeningPricePerTon,
				EffectiveDate: time.Now(),
				Notes:         &note,
				CreatedBy:     &createdBy,
			}); err != nil {
				return err
			}
			out = append(out, dto.FromSeasonProductPrice(row))
		}
		return nil
	})
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}
	return out, nil
}

// UpdatePrice appends a history entry and moves the pair's current price, in
// one transaction, then drops the cache entry.
func (s *pricingService) UpdatePrice(ctx context.Context, seasonID, productID uuid.UUID, req dto.UpdatePriceRequest) (*dto.SeasonProductPriceResponse, error) {
	if !req.PricePerTon.IsPositive() {
		return nil, apierror.Validation("price per ton must be positive, got %s", req.PricePerTon)
	}
	createdBy, err := uuid.Parse(req.CreatedBy)
	if err != nil {
		return nil, apierror.Validation("created_by: %v", err)
	}

	pair, err := s.repo.FindPair(ctx, seasonID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("no price configured for season %s product %s", seasonID, productID)
		}
		return nil, apierror.Storage(err)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pair.CurrentPricePerTon = req.PricePerTon
		if err := s.repo.UpsertCurrentTx(ctx, tx, pair); err != nil {
			return err
		}
		return s.repo.AppendHistoryTx(ctx, tx, &model.PriceHistory{
			SeasonID:      seasonID,
			ProductID:     productID,
			PricePerTon:   req.PricePerTon,
			EffectiveDate: time.Now(),
			Notes:         req.Notes,
			CreatedBy:     &createdBy,
		})
	})
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, priceCacheKey(seasonID, productID)).Err(); err != nil {
			log.Warn().Err(err).Msg("price cache invalidation failed")
		}
	}

	resp := dto.FromSeasonProductPrice(pair)
	return &resp, nil
}

// CopyPrices seeds the target season using the source season's current prices
// as opening prices. Pairs the target already has are skipped.
func (s *pricingService) CopyPrices(ctx context.Context, targetSeasonID uuid.UUID, req dto.CopyPricesRequest) ([]dto.SeasonProductPriceResponse, error) {
	sourceSeasonID, err := uuid.Parse(req.SourceSeasonID)
	if err != nil {
		return nil, apierror.Validation("source_season_id: %v", err)
	}
	if sourceSeasonID == targetSeasonID {
		return nil, apierror.Validation("source and target season are the same")
	}
	createdBy, err := uuid.Parse(req.CreatedBy)
	if err != nil {
		return nil, apierror.Validation("created_by: %v", err)
	}

	source, err := s.repo.ListBySeason(ctx, sourceSeasonID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	if len(source) == 0 {
		return nil, apierror.NotFound("season %s has no prices to copy", sourceSeasonID)
	}

	var out []dto.SeasonProductPriceResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, src := range source {
			if _, err := s.repo.FindPair(ctx, targetSeasonID, src.ProductID); err == nil {
				continue
			}
			row := &model.SeasonProductPrice{
				SeasonID:           targetSeasonID,
				ProductID:          src.ProductID,
				OpeningPricePerTon: src.CurrentPricePerTon,
				CurrentPricePerTon: src.CurrentPricePerTon,
			}
			if err := s.repo.UpsertCurrentTx(ctx, tx, row); err != nil {
				return err
			}
			note := fmt.Sprintf("copied from season %s", sourceSeasonID)
			if err := s.repo.AppendHistoryTx(ctx, tx, &model.PriceHistory{
				SeasonID:      targetSeasonID,
				ProductID:     src.ProductID,
				PricePerTon:   src.CurrentPricePerTon,
				EffectiveDate: time.Now(),
				Notes:         &note,
				CreatedBy:     &createdBy,
			}); err != nil {
				return err
			}
			out = append(out, dto.FromSeasonProductPrice(row))
		}
		return nil
	})
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}
	return out, nil
}

func (s *pricingService) History(ctx context.Context, seasonID, productID uuid.UUID) ([]dto.PriceHistoryResponse, error) {
	rows, err := s.repo.ListHistory(ctx, seasonID, productID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.PriceHistoryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPriceHistory(&rows[i]))
	}
	return out, nil
}

func (s *pricingService) ListSeasonPrices(ctx context.Context, seasonID uuid.UUID) ([]dto.SeasonProductPriceResponse, error) {
	rows, err := s.repo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.SeasonProductPriceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromSeasonProductPrice(&rows[i]))
	}
	return out, nil
}
