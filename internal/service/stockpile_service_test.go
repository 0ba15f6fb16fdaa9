package service

import (
	"context"
	"testing"

	"paddyledger/internal/apierror"
	"paddyledger/internal/model"
	"paddyledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubStockpileRepo struct {
	summaries map[uuid.UUID][]repository.StockpileSummaryRecord
	movements []repository.StockMovementRecord
}

func newStubStockpileRepo() *stubStockpileRepo {
	return &stubStockpileRepo{summaries: make(map[uuid.UUID][]repository.StockpileSummaryRecord)}
}

func (r *stubStockpileRepo) Summary(_ context.Context, seasonID uuid.UUID) ([]repository.StockpileSummaryRecord, error) {
	return r.summaries[seasonID], nil
}

func (r *stubStockpileRepo) Movements(_ context.Context, _, productID uuid.UUID, _, _, movementType string) ([]repository.StockMovementRecord, error) {
	var out []repository.StockMovementRecord
	for _, m := range r.movements {
		if movementType != "" && m.MovementType != movementType {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *stubStockpileRepo) DB() *gorm.DB { return nil }

var _ repository.StockpileRepository = (*stubStockpileRepo)(nil)

func summaryRecord(code string, purchasedKg, soldKg string, pricePerTon string) repository.StockpileSummaryRecord {
	return repository.StockpileSummaryRecord{
		ProductID:          uuid.New(),
		ProductCode:        code,
		ProductName:        "Paddy " + code,
		ProductType:        "BENIH",
		Variety:            code,
		TotalPurchasedKg:   d(purchasedKg),
		PurchaseCount:      3,
		TotalSoldKg:        d(soldKg),
		SalesCount:         1,
		CurrentPricePerTon: d(pricePerTon),
	}
}

func newStockpileFixture(t *testing.T) (StockpileService, *stubStockpileRepo, *model.Season) {
	t.Helper()
	repo := newStubStockpileRepo()
	seasons := newStubSeasonRepo()
	season := activeSeason("2025-S1")
	require.NoError(t, seasons.Create(context.Background(), nil, season))
	return NewStockpileService(repo, seasons), repo, season
}

func TestStockpileSummary_DerivesStockAndValue(t *testing.T) {
	svc, repo, season := newStockpileFixture(t)
	repo.summaries[season.ID] = []repository.StockpileSummaryRecord{
		summaryRecord("MR297", "12500", "4500", "1800"),
	}

	rows, err := svc.Summary(context.Background(), season.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.True(t, row.CurrentStockKg.Equal(d("8000")))
	assert.True(t, row.CurrentStockTon.Equal(d("8")))
	assert.True(t, row.TotalPurchasedTon.Equal(d("12.5")))
	assert.True(t, row.StockValue.Equal(d("14400.00")), "stock value = %s", row.StockValue)
}

func TestStockpileSummary_UnknownSeason(t *testing.T) {
	svc, _, _ := newStockpileFixture(t)
	_, err := svc.Summary(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestStockpileStats_AggregatesAcrossProducts(t *testing.T) {
	svc, repo, season := newStockpileFixture(t)
	repo.summaries[season.ID] = []repository.StockpileSummaryRecord{
		summaryRecord("MR297", "12500", "4500", "1800"),
		summaryRecord("MR220", "7500", "5500", "1750"),
	}

	stats, err := svc.Stats(context.Background(), season.ID)
	require.NoError(t, err)
	assert.True(t, stats.TotalPurchasedKg.Equal(d("20000")))
	assert.True(t, stats.TotalSoldKg.Equal(d("10000")))
	assert.True(t, stats.CurrentStockKg.Equal(d("10000")))
	assert.Equal(t, int64(6), stats.TotalPurchaseTransactions)
	assert.Equal(t, int64(2), stats.TotalSaleTransactions)
	assert.True(t, stats.TurnoverRatePct.Equal(d("50")), "turnover = %s", stats.TurnoverRatePct)
}

func TestStockpileStats_NoPurchasesNoTurnover(t *testing.T) {
	svc, _, season := newStockpileFixture(t)
	stats, err := svc.Stats(context.Background(), season.ID)
	require.NoError(t, err)
	assert.True(t, stats.TurnoverRatePct.IsZero())
}

func TestStockpileLowStock(t *testing.T) {
	svc, repo, season := newStockpileFixture(t)
	repo.summaries[season.ID] = []repository.StockpileSummaryRecord{
		summaryRecord("MR297", "12500", "4500", "1800"), // 8000 kg left
		summaryRecord("MR220", "5000", "4600", "1750"),  // 400 kg left
		summaryRecord("CL220", "2000", "2000", "1600"),  // sold out
	}

	rows, err := svc.LowStock(context.Background(), season.ID, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, rows, 2, "default 1000 kg threshold flags two products")

	rows, err = svc.LowStock(context.Background(), season.ID, d("300"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CL220", rows[0].ProductCode)
}
