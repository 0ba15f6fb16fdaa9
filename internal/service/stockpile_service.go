package service

import (
	"context"
	"errors"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultLowStockThresholdKg flags products running low in the alerts view.
var DefaultLowStockThresholdKg = decimal.NewFromInt(1000)

type StockpileService interface {
	Summary(ctx context.Context, seasonID uuid.UUID) ([]dto.StockpileSummaryRow, error)
	Stats(ctx context.Context, seasonID uuid.UUID) (*dto.StockpileStatsResponse, error)
	Movements(ctx context.Context, seasonID uuid.UUID, filter dto.MovementFilter) ([]dto.StockMovementRow, error)
	LowStock(ctx context.Context, seasonID uuid.UUID, thresholdKg decimal.Decimal) ([]dto.StockpileSummaryRow, error)
}

type stockpileService struct {
	repo       repository.StockpileRepository
	seasonRepo repository.SeasonRepository
}

func NewStockpileService(repo repository.StockpileRepository, seasonRepo repository.SeasonRepository) StockpileService {
	return &stockpileService{repo: repo, seasonRepo: seasonRepo}
}

func (s *stockpileService) checkSeason(ctx context.Context, seasonID uuid.UUID) error {
	if _, err := s.seasonRepo.FindByID(ctx, seasonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("season %s not found", seasonID)
		}
		return apierror.Storage(err)
	}
	return nil
}

func toTons(kg decimal.Decimal) decimal.Decimal { return kg.Div(kgPerTon).Round(3) }

func summaryRow(r repository.StockpileSummaryRecord) dto.StockpileSummaryRow {
	stockKg := r.TotalPurchasedKg.Sub(r.TotalSoldKg)
	stockTon := toTons(stockKg)
	return dto.StockpileSummaryRow{
		ProductID:          r.ProductID.String(),
		ProductCode:        r.ProductCode,
		ProductName:        r.ProductName,
		ProductType:        r.ProductType,
		Variety:            r.Variety,
		TotalPurchasedKg:   r.TotalPurchasedKg,
		TotalPurchasedTon:  toTons(r.TotalPurchasedKg),
		PurchaseCount:      r.PurchaseCount,
		TotalSoldKg:        r.TotalSoldKg,
		TotalSoldTon:       toTons(r.TotalSoldKg),
		SalesCount:         r.SalesCount,
		CurrentStockKg:     stockKg,
		CurrentStockTon:    stockTon,
		CurrentPricePerTon: r.CurrentPricePerTon,
		StockValue:         stockTon.Mul(r.CurrentPricePerTon).Round(2),
	}
}

func (s *stockpileService) Summary(ctx context.Context, seasonID uuid.UUID) ([]dto.StockpileSummaryRow, error) {
	if err := s.checkSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	records, err := s.repo.Summary(ctx, seasonID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.StockpileSummaryRow, 0, len(records))
	for _, r := range records {
		out = append(out, summaryRow(r))
	}
	return out, nil
}

func (s *stockpileService) Stats(ctx context.Context, seasonID uuid.UUID) (*dto.StockpileStatsResponse, error) {
	rows, err := s.Summary(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	stats := &dto.StockpileStatsResponse{}
	for _, r := range rows {
		stats.TotalPurchasedKg = stats.TotalPurchasedKg.Add(r.TotalPurchasedKg)
		stats.TotalPurchaseTransactions += r.PurchaseCount
		stats.TotalSoldKg = stats.TotalSoldKg.Add(r.TotalSoldKg)
		stats.TotalSaleTransactions += r.SalesCount
	}
	stats.TotalPurchasedTon = toTons(stats.TotalPurchasedKg)
	stats.TotalSoldTon = toTons(stats.TotalSoldKg)
	stats.CurrentStockKg = stats.TotalPurchasedKg.Sub(stats.TotalSoldKg)
	stats.CurrentStockTon = toTons(stats.CurrentStockKg)
	if stats.TotalPurchasedKg.IsPositive() {
		stats.TurnoverRatePct = stats.TotalSoldKg.Div(stats.TotalPurchasedKg).Mul(oneHundred).Round(2)
	}
	return stats, nil
}

func (s *stockpileService) Movements(ctx context.Context, seasonID uuid.UUID, filter dto.MovementFilter) ([]dto.StockMovementRow, error) {
	if err := s.checkSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	productID, err := uuid.Parse(filter.ProductID)
	if err != nil {
		return nil, apierror.Validation("product_id: %v", err)
	}
	movementType := filter.MovementType
	if movementType == "ALL" {
		movementType = ""
	}
	records, err := s.repo.Movements(ctx, seasonID, productID, filter.DateFrom, filter.DateTo, movementType)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.StockMovementRow, 0, len(records))
	for _, r := range records {
		out = append(out, dto.StockMovementRow{
			MovementType:    r.MovementType,
			TransactionID:   r.TransactionID.String(),
			ReferenceNumber: r.ReferenceNumber,
			TransactionDate: r.TransactionDate.Format("2006-01-02T15:04:05Z07:00"),
			PartyName:       r.PartyName,
			PartyCode:       r.PartyCode,
			WeightKg:        r.WeightKg,
			TotalAmount:     r.TotalAmount,
			PaymentStatus:   r.PaymentStatus,
		})
	}
	return out, nil
}

// LowStock lists products whose current stock has fallen under the threshold,
// products with no stock at all included.
func (s *stockpileService) LowStock(ctx context.Context, seasonID uuid.UUID, thresholdKg decimal.Decimal) ([]dto.StockpileSummaryRow, error) {
	if thresholdKg.IsZero() {
		thresholdKg = DefaultLowStockThresholdKg
	}
	rows, err := s.Summary(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	var out []dto.StockpileSummaryRow
	for _, r := range rows {
		if r.CurrentStockKg.LessThan(thresholdKg) {
			out = append(out, r)
		}
	}
	return out, nil
}
