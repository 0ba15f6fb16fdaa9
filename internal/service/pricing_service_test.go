package service

import (
	"context"
	"testing"
	"time"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pricingFixture struct {
	svc     PricingService
	prices  *stubPriceRepo
	seasons *stubSeasonRepo
	season  *model.Season
	product *model.Product
	actor   uuid.UUID
}

func newPricingFixture(t *testing.T) *pricingFixture {
	t.Helper()
	f := &pricingFixture{
		prices:  newStubPriceRepo(),
		seasons: newStubSeasonRepo(),
		season:  activeSeason("2025-S1"),
		product: seedProduct("MR297"),
		actor:   uuid.New(),
	}
	require.NoError(t, f.seasons.Create(context.Background(), nil, f.season))
	// nil Redis client: the cache layer degrades to DB reads.
	f.svc = NewPricingService(f.prices, f.seasons, nil)
	return f
}

func (f *pricingFixture) initialize(t *testing.T, pricePerTon string) {
	t.Helper()
	_, err := f.svc.InitializePrices(context.Background(), f.season.ID, dto.InitializePricesRequest{
		Prices: []dto.ProductPriceRequest{
			{ProductID: f.product.ID.String(), OpeningPricePerTon: d(pricePerTon)},
		},
		CreatedBy: f.actor.String(),
	})
	require.NoError(t, err)
}

func TestPricingInitialize(t *testing.T) {
	f := newPricingFixture(t)
	f.initialize(t, "1800")

	pair, err := f.prices.FindPair(context.Background(), f.season.ID, f.product.ID)
	require.NoError(t, err)
	assert.True(t, pair.OpeningPricePerTon.Equal(d("1800")))
	assert.True(t, pair.CurrentPricePerTon.Equal(d("1800")))

	history, err := f.svc.History(context.Background(), f.season.ID, f.product.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].PricePerTon.Equal(d("1800")))
	require.NotNil(t, history[0].Notes)
	assert.Equal(t, "opening price", *history[0].Notes)
}

func TestPricingInitialize_DuplicatePairRejected(t *testing.T) {
	f := newPricingFixture(t)
	f.initialize(t, "1800")

	_, err := f.svc.InitializePrices(context.Background(), f.season.ID, dto.InitializePricesRequest{
		Prices: []dto.ProductPriceRequest{
			{ProductID: f.product.ID.String(), OpeningPricePerTon: d("1900")},
		},
		CreatedBy: f.actor.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestPricingInitialize_UnknownSeason(t *testing.T) {
	f := newPricingFixture(t)
	_, err := f.svc.InitializePrices(context.Background(), uuid.New(), dto.InitializePricesRequest{
		Prices: []dto.ProductPriceRequest{
			{ProductID: f.product.ID.String(), OpeningPricePerTon: d("1800")},
		},
		CreatedBy: f.actor.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestPricingUpdate_AppendsHistoryAndMovesCurrent(t *testing.T) {
	f := newPricingFixture(t)
	f.initialize(t, "1800")

	resp, err := f.svc.UpdatePrice(context.Background(), f.season.ID, f.product.ID, dto.UpdatePriceRequest{
		PricePerTon: d("1850"),
		Notes:       strPtr("mid-season adjustment"),
		CreatedBy:   f.actor.String(),
	})
	require.NoError(t, err)
	assert.True(t, resp.CurrentPricePerTon.Equal(d("1850")))
	assert.True(t, resp.OpeningPricePerTon.Equal(d("1800")), "opening price never moves")

	history, err := f.svc.History(context.Background(), f.season.ID, f.product.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "history is append-only")
}

func TestPricingUpdate_UnknownPair(t *testing.T) {
	f := newPricingFixture(t)
	_, err := f.svc.UpdatePrice(context.Background(), f.season.ID, f.product.ID, dto.UpdatePriceRequest{
		PricePerTon: d("1850"),
		CreatedBy:   f.actor.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestPricingUpdate_NonPositiveRejected(t *testing.T) {
	f := newPricingFixture(t)
	f.initialize(t, "1800")

	_, err := f.svc.UpdatePrice(context.Background(), f.season.ID, f.product.ID, dto.UpdatePriceRequest{
		PricePerTon: d("0"),
		CreatedBy:   f.actor.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestPricingCurrentPrice(t *testing.T) {
	f := newPricingFixture(t)
	f.initialize(t, "1800")

	price, err := f.svc.CurrentPrice(context.Background(), f.season.ID, f.product.ID)
	require.NoError(t, err)
	assert.True(t, price.Equal(d("1800")))

	_, err = f.svc.CurrentPrice(context.Background(), f.season.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestPricingPriceAt_ResolvesHistoricalPrice(t *testing.T) {
	f := newPricingFixture(t)
	seasonID, productID := f.season.ID, f.product.ID

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, entry := range []struct {
		price string
		at    time.Time
	}{
		{"1800", base},
		{"1850", base.AddDate(0, 0, 10)},
		{"1820", base.AddDate(0, 0, 20)},
	} {
		require.NoError(t, f.prices.AppendHistoryTx(context.Background(), nil, &model.PriceHistory{
			SeasonID:      seasonID,
			ProductID:     productID,
			PricePerTon:   d(entry.price),
			EffectiveDate: entry.at,
		}))
	}

	price, err := f.svc.PriceAt(context.Background(), seasonID, productID, base.AddDate(0, 0, 15))
	require.NoError(t, err)
	assert.True(t, price.Equal(d("1850")))

	price, err = f.svc.PriceAt(context.Background(), seasonID, productID, base.AddDate(0, 0, 25))
	require.NoError(t, err)
	assert.True(t, price.Equal(d("1820")))

	_, err = f.svc.PriceAt(context.Background(), seasonID, productID, base.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestPricingCopy_SeedsFromSourceCurrentPrices(t *testing.T) {
	f := newPricingFixture(t)
	f.initialize(t, "1800")
	// Source has moved since opening; the copy uses the moved price.
	_, err := f.svc.UpdatePrice(context.Background(), f.season.ID, f.product.ID, dto.UpdatePriceRequest{
		PricePerTon: d("1850"),
		CreatedBy:   f.actor.String(),
	})
	require.NoError(t, err)

	target := activeSeason("2025-S2")
	target.Status = model.SeasonStatusPlanned
	require.NoError(t, f.seasons.Create(context.Background(), nil, target))

	copied, err := f.svc.CopyPrices(context.Background(), target.ID, dto.CopyPricesRequest{
		SourceSeasonID: f.season.ID.String(),
		CreatedBy:      f.actor.String(),
	})
	require.NoError(t, err)
	require.Len(t, copied, 1)
	assert.True(t, copied[0].OpeningPricePerTon.Equal(d("1850")))
	assert.True(t, copied[0].CurrentPricePerTon.Equal(d("1850")))
}

func TestPricingCopy_SkipsExistingPairs(t *testing.T) {
	f := newPricingFixture(t)
	f.initialize(t, "1800")

	target := activeSeason("2025-S2")
	target.Status = model.SeasonStatusPlanned
	require.NoError(t, f.seasons.Create(context.Background(), nil, target))

	// The target already priced this product.
	require.NoError(t, f.prices.UpsertCurrentTx(context.Background(), nil, &model.SeasonProductPrice{
		SeasonID:           target.ID,
		ProductID:          f.product.ID,
		OpeningPricePerTon: d("1700"),
		CurrentPricePerTon: d("1700"),
	}))

	copied, err := f.svc.CopyPrices(context.Background(), target.ID, dto.CopyPricesRequest{
		SourceSeasonID: f.season.ID.String(),
		CreatedBy:      f.actor.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, copied)

	pair, err := f.prices.FindPair(context.Background(), target.ID, f.product.ID)
	require.NoError(t, err)
	assert.True(t, pair.CurrentPricePerTon.Equal(d("1700")), "existing price untouched")
}

func TestPricingCopy_Guards(t *testing.T) {
	f := newPricingFixture(t)

	_, err := f.svc.CopyPrices(context.Background(), f.season.ID, dto.CopyPricesRequest{
		SourceSeasonID: f.season.ID.String(),
		CreatedBy:      f.actor.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = f.svc.CopyPrices(context.Background(), f.season.ID, dto.CopyPricesRequest{
		SourceSeasonID: uuid.New().String(),
		CreatedBy:      f.actor.String(),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err), "empty source has nothing to copy")
}
