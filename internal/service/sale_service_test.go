package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	*purchaseFixture

	sales         *stubSaleRepo
	manufacturers *stubManufacturerRepo
	products      *stubProductRepo
	manufacturer  *model.Manufacturer
	locker        *stubLocker
	svc           SaleService
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	f := &saleFixture{
		purchaseFixture: newPurchaseFixture(t),
		sales:           newStubSaleRepo(),
		manufacturers:   newStubManufacturerRepo(),
		products:        newStubProductRepo(),
		manufacturer:    activeManufacturer("M001"),
		locker:          &stubLocker{},
	}
	ctx := context.Background()
	require.NoError(t, f.manufacturers.Create(ctx, f.manufacturer))
	require.NoError(t, f.products.Create(ctx, f.product))
	f.svc = NewSaleService(f.sales, f.purchases, f.seasons, f.manufacturers, f.products,
		f.purchaseFixture.svc, f.locker)
	return f
}

// seedPurchase inserts a completed receipt with no deductions so the full
// net weight is available for sale.
func (f *saleFixture) seedPurchase(t *testing.T, netKg string) *model.PurchaseTransaction {
	t.Helper()
	net := d(netKg)
	ctx := context.Background()
	number, err := f.purchases.NextReceiptNumber(ctx, nil, f.season.ID, f.season.SeasonCode)
	require.NoError(t, err)
	p := &model.PurchaseTransaction{
		ReceiptNumber:     number,
		SeasonID:          f.season.ID,
		FarmerID:          f.farmer.ID,
		GradeID:           f.grade.ID,
		ProductID:         f.product.ID,
		TransactionDate:   time.Now(),
		GrossWeightKg:     net,
		TareWeightKg:      decimal.Zero,
		NetWeightKg:       net,
		EffectiveWeightKg: net,
		BasePricePerKg:    d("1.80"),
		FinalPricePerKg:   d("1.80"),
		TotalAmount:       net.Mul(d("1.80")).Round(2),
		Status:            model.PurchaseStatusCompleted,
		PaymentStatus:     model.PaymentStatusUnpaid,
		CreatedBy:         f.actor,
	}
	require.NoError(t, f.purchases.Create(ctx, nil, p))
	return p
}

func (f *saleFixture) saleRequest(grossKg string, allocations ...dto.PurchaseAllocationRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		SeasonID:       f.season.ID.String(),
		ProductID:      f.product.ID.String(),
		ManufacturerID: f.manufacturer.ID.String(),
		GrossWeightKg:  d(grossKg),
		TareWeightKg:   decimal.Zero,
		SalePricePerKg: d("2.10"),
		Allocations:    allocations,
		CreatedBy:      f.actor.String(),
	}
}

func alloc(p *model.PurchaseTransaction, qtyKg string) dto.PurchaseAllocationRequest {
	return dto.PurchaseAllocationRequest{
		PurchaseTransactionID: p.ID.String(),
		QuantityKg:            d(qtyKg),
	}
}

func TestSaleCreate_AutoSplitsPartialAllocation(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")

	resp, err := f.svc.Create(context.Background(), f.saleRequest("250", alloc(purchase, "250")))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SplitsPerformed)
	assert.Equal(t, 1, resp.ReceiptsCount)
	assert.True(t, resp.TotalAmount.Equal(d("525.00")), "total = %s", resp.TotalAmount)

	day := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("SALE-%s-0001", day), resp.SalesNumber)
	require.Len(t, f.locker.keys, 1)
	assert.Equal(t, "salesno:"+day, f.locker.keys[0])
	assert.True(t, f.locker.locks[0].released)

	// The mapping points at the carved-out child, not the parent.
	require.Len(t, f.sales.mappings, 1)
	mapping := f.sales.mappings[0]
	assert.NotEqual(t, purchase.ID, mapping.TransactionID)
	assert.True(t, mapping.QuantityKg.Equal(d("250")))

	child, err := f.purchases.FindByID(context.Background(), mapping.TransactionID)
	require.NoError(t, err)
	assert.True(t, child.NetWeightKg.Equal(d("250")))
	require.NotNil(t, child.ParentTransactionID)
	assert.Equal(t, purchase.ID, *child.ParentTransactionID)

	// The remainder child stays available for later sales.
	children, err := f.purchases.ListChildren(context.Background(), purchase.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	remainder := children[0]
	if remainder.ID == child.ID {
		remainder = children[1]
	}
	assert.True(t, remainder.NetWeightKg.Equal(d("50")))
}

func TestSaleCreate_ExactRemainingSoldDirectly(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")

	resp, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(purchase, "300")))
	require.NoError(t, err)

	assert.Equal(t, 0, resp.SplitsPerformed)
	require.Len(t, f.sales.mappings, 1)
	assert.Equal(t, purchase.ID, f.sales.mappings[0].TransactionID)

	children, err := f.purchases.ListChildren(context.Background(), purchase.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestSaleCreate_MultipleAllocations(t *testing.T) {
	f := newSaleFixture(t)
	p1 := f.seedPurchase(t, "300")
	p2 := f.seedPurchase(t, "500")

	resp, err := f.svc.Create(context.Background(),
		f.saleRequest("600", alloc(p1, "300"), alloc(p2, "300")))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SplitsPerformed, "only the partial allocation splits")
	assert.Equal(t, 2, resp.ReceiptsCount)
	require.Len(t, f.sales.mappings, 2)
}

func TestSaleCreate_OverAllocationRejected(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")

	_, err := f.svc.Create(context.Background(), f.saleRequest("400", alloc(purchase, "400")))
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Empty(t, f.sales.mappings)
}

func TestSaleCreate_AllocationTotalMustMatchNetWeight(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")

	// 50 kg gap, well past the 1 kg tolerance.
	_, err := f.svc.Create(context.Background(), f.saleRequest("250", alloc(purchase, "300")))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSaleCreate_AllocationWithinTolerance(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")

	// Weighbridge reads 299.5 kg against a 300 kg allocation.
	resp, err := f.svc.Create(context.Background(), f.saleRequest("299.5", alloc(purchase, "300")))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.SplitsPerformed)

	// The mapping records the allocated quantity, not the weighbridge net;
	// stockpile sold totals sum mappings so they reconcile against the
	// purchase ledger.
	require.Len(t, f.sales.mappings, 1)
	assert.True(t, f.sales.mappings[0].QuantityKg.Equal(d("300")),
		"mapped %s", f.sales.mappings[0].QuantityKg)
}

func TestSaleCreate_PartiallySoldRequiresExactRemainder(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	f.purchases.sold[purchase.ID] = d("100")

	// 150 kg of the remaining 200 would need a second split; rejected.
	_, err := f.svc.Create(context.Background(), f.saleRequest("150", alloc(purchase, "150")))
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))

	// Taking the remainder exactly is fine.
	resp, err := f.svc.Create(context.Background(), f.saleRequest("200", alloc(purchase, "200")))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.SplitsPerformed)
}

func TestSaleCreate_SplitParentNoLongerSellable(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	_, err := f.purchaseFixture.svc.Split(context.Background(), purchase.ID, dto.SplitPurchaseRequest{
		SplitWeightKg: d("100"), ActorID: f.actor.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.saleRequest("300", alloc(purchase, "300")))
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestSaleCreate_PurchaseFromAnotherSeason(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	other := activeSeason("2024-S2")
	other.Status = model.SeasonStatusClosed
	require.NoError(t, f.seasons.Create(context.Background(), nil, other))
	purchase.SeasonID = other.ID

	_, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(purchase, "300")))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSaleCreate_InactiveManufacturerRejected(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	f.manufacturer.Status = model.PartyStatusInactive

	_, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(purchase, "300")))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSaleCreate_ClosedSeasonRejected(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	f.season.Status = model.SeasonStatusClosed

	_, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(purchase, "300")))
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSaleCreate_UnknownProduct(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	req := f.saleRequest("300", alloc(purchase, "300"))
	req.ProductID = uuid.New().String()

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestSaleCreate_DateSequencedNumbers(t *testing.T) {
	f := newSaleFixture(t)
	p1 := f.seedPurchase(t, "300")
	p2 := f.seedPurchase(t, "300")

	r1, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(p1, "300")))
	require.NoError(t, err)
	r2, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(p2, "300")))
	require.NoError(t, err)

	day := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("SALE-%s-0001", day), r1.SalesNumber)
	assert.Equal(t, fmt.Sprintf("SALE-%s-0002", day), r2.SalesNumber)
}

func TestSaleCreate_RetriesPastNumberCollision(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	f.sales.duplicateCreates = 1

	resp, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(purchase, "300")))
	require.NoError(t, err)

	// The colliding attempt burned 0001; the retry takes a fresh number.
	day := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("SALE-%s-0002", day), resp.SalesNumber)
	require.Len(t, f.sales.mappings, 1)
}

func TestSaleCreate_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	f.sales.duplicateCreates = salesNumberRetries

	_, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(purchase, "300")))
	require.Error(t, err)
	assert.Empty(t, f.sales.mappings)
}

func TestSaleGetBySalesNumber(t *testing.T) {
	f := newSaleFixture(t)
	purchase := f.seedPurchase(t, "300")
	created, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(purchase, "300")))
	require.NoError(t, err)

	sale, err := f.svc.GetBySalesNumber(context.Background(), created.SalesNumber)
	require.NoError(t, err)
	assert.Equal(t, created.SalesID, sale.SalesID)
	assert.True(t, sale.NetWeightKg.Equal(d("300")))

	_, err = f.svc.GetBySalesNumber(context.Background(), "SALE-19700101-0001")
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestSaleStats(t *testing.T) {
	f := newSaleFixture(t)
	p1 := f.seedPurchase(t, "300")
	p2 := f.seedPurchase(t, "200")
	_, err := f.svc.Create(context.Background(), f.saleRequest("300", alloc(p1, "300")))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), f.saleRequest("200", alloc(p2, "200")))
	require.NoError(t, err)

	stats, err := f.svc.TotalStats(context.Background(), &f.season.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalTransactions)
	assert.True(t, stats.TotalNetWeightKg.Equal(d("500")))
	assert.True(t, stats.TotalAmount.Equal(d("1050.00")))
}
