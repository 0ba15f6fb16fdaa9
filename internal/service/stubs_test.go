package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"paddyledger/internal/dto"
	"paddyledger/internal/model"
	"paddyledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

// ── Purchase repo stub ────────────────────────────────────────────────────────

// stubPurchaseRepo is an in-memory PurchaseRepository for testing.
type stubPurchaseRepo struct {
	purchases  map[uuid.UUID]*model.PurchaseTransaction
	sold       map[uuid.UUID]decimal.Decimal
	receiptSeq map[uuid.UUID]int
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{
		purchases:  make(map[uuid.UUID]*model.PurchaseTransaction),
		sold:       make(map[uuid.UUID]decimal.Decimal),
		receiptSeq: make(map[uuid.UUID]int),
	}
}

func (r *stubPurchaseRepo) Create(_ context.Context, _ *gorm.DB, p *model.PurchaseTransaction) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseTransaction, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.PurchaseTransaction, error) {
	return r.FindByID(ctx, id)
}

func (r *stubPurchaseRepo) FindByReceipt(_ context.Context, receiptNumber string) (*model.PurchaseTransaction, error) {
	for _, p := range r.purchases {
		if p.ReceiptNumber == receiptNumber {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPurchaseRepo) List(_ context.Context, _ dto.PurchaseFilter) ([]model.PurchaseTransaction, error) {
	out := make([]model.PurchaseTransaction, 0, len(r.purchases))
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPurchaseRepo) ListUnsold(_ context.Context, seasonID *uuid.UUID) ([]repository.UnsoldPurchaseRow, error) {
	var out []repository.UnsoldPurchaseRow
	for _, p := range r.purchases {
		if p.Status != model.PurchaseStatusCompleted {
			continue
		}
		if seasonID != nil && p.SeasonID != *seasonID {
			continue
		}
		if r.hasChildren(p.ID) {
			continue
		}
		sold := r.sold[p.ID]
		available := p.NetWeightKg.Sub(sold)
		if !available.IsPositive() {
			continue
		}
		out = append(out, repository.UnsoldPurchaseRow{
			TransactionID:       p.ID,
			ReceiptNumber:       p.ReceiptNumber,
			TransactionDate:     p.TransactionDate,
			GradeID:             p.GradeID,
			ProductID:           p.ProductID,
			NetWeightKg:         p.NetWeightKg,
			SoldQuantityKg:      sold,
			AvailableQuantityKg: available,
			ParentTransactionID: p.ParentTransactionID,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceiptNumber < out[j].ReceiptNumber })
	return out, nil
}

func (r *stubPurchaseRepo) ListChildren(_ context.Context, parentID uuid.UUID) ([]model.PurchaseTransaction, error) {
	var out []model.PurchaseTransaction
	for _, p := range r.purchases {
		if p.ParentTransactionID != nil && *p.ParentTransactionID == parentID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceiptNumber < out[j].ReceiptNumber })
	return out, nil
}

func (r *stubPurchaseRepo) SoldQuantityTx(_ context.Context, _ *gorm.DB, id uuid.UUID) (decimal.Decimal, error) {
	return r.sold[id], nil
}

func (r *stubPurchaseRepo) hasChildren(id uuid.UUID) bool {
	for _, p := range r.purchases {
		if p.ParentTransactionID != nil && *p.ParentTransactionID == id {
			return true
		}
	}
	return false
}

func (r *stubPurchaseRepo) HasChildrenTx(_ context.Context, _ *gorm.DB, id uuid.UUID) (bool, error) {
	return r.hasChildren(id), nil
}

func (r *stubPurchaseRepo) UpdateFarmerTx(_ context.Context, _ *gorm.DB, id, farmerID uuid.UUID) error {
	p, ok := r.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.FarmerID = farmerID
	return nil
}

func (r *stubPurchaseRepo) UpdateChildrenFarmerTx(_ context.Context, _ *gorm.DB, parentID, farmerID uuid.UUID) error {
	for _, p := range r.purchases {
		if p.ParentTransactionID != nil && *p.ParentTransactionID == parentID {
			p.FarmerID = farmerID
		}
	}
	return nil
}

func (r *stubPurchaseRepo) UpdatePayment(_ context.Context, id uuid.UUID, status string, reference *string) error {
	p, ok := r.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PaymentStatus = status
	p.PaymentReference = reference
	return nil
}

func (r *stubPurchaseRepo) NextReceiptNumber(_ context.Context, _ *gorm.DB, seasonID uuid.UUID, seasonCode string) (string, error) {
	r.receiptSeq[seasonID]++
	return fmt.Sprintf("%s-%06d", seasonCode, r.receiptSeq[seasonID]), nil
}

func (r *stubPurchaseRepo) TotalStats(_ context.Context, seasonID *uuid.UUID) (*repository.PurchaseStats, error) {
	stats := &repository.PurchaseStats{TotalNetWeightKg: decimal.Zero, TotalAmount: decimal.Zero}
	for _, p := range r.purchases {
		if p.Status != model.PurchaseStatusCompleted {
			continue
		}
		if seasonID != nil && p.SeasonID != *seasonID {
			continue
		}
		stats.TotalTransactions++
		stats.TotalNetWeightKg = stats.TotalNetWeightKg.Add(p.NetWeightKg)
		stats.TotalAmount = stats.TotalAmount.Add(p.TotalAmount)
	}
	return stats, nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// ── Season repo stub ──────────────────────────────────────────────────────────

type stubSeasonRepo struct {
	seasons map[uuid.UUID]*model.Season
}

func newStubSeasonRepo() *stubSeasonRepo {
	return &stubSeasonRepo{seasons: make(map[uuid.UUID]*model.Season)}
}

func (r *stubSeasonRepo) Create(_ context.Context, _ *gorm.DB, s *model.Season) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.seasons[s.ID] = s
	return nil
}

func (r *stubSeasonRepo) Save(_ context.Context, s *model.Season) error {
	r.seasons[s.ID] = s
	return nil
}

func (r *stubSeasonRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Season, error) {
	s, ok := r.seasons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSeasonRepo) FindByCode(_ context.Context, code string) (*model.Season, error) {
	for _, s := range r.seasons {
		if s.SeasonCode == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSeasonRepo) FindActive(_ context.Context) (*model.Season, error) {
	for _, s := range r.seasons {
		if s.Status == model.SeasonStatusActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSeasonRepo) List(_ context.Context, _ dto.SeasonFilter) ([]model.Season, error) {
	out := make([]model.Season, 0, len(r.seasons))
	for _, s := range r.seasons {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSeasonRepo) CloseAllActiveTx(_ context.Context, _ *gorm.DB, exceptID uuid.UUID) error {
	now := time.Now()
	for _, s := range r.seasons {
		if s.ID != exceptID && s.Status == model.SeasonStatusActive {
			s.Status = model.SeasonStatusClosed
			s.ClosedAt = &now
		}
	}
	return nil
}

func (r *stubSeasonRepo) DB() *gorm.DB { return nil }

var _ repository.SeasonRepository = (*stubSeasonRepo)(nil)

// ── Party repo stubs ──────────────────────────────────────────────────────────

type stubFarmerRepo struct {
	farmers map[uuid.UUID]*model.Farmer
}

func newStubFarmerRepo() *stubFarmerRepo {
	return &stubFarmerRepo{farmers: make(map[uuid.UUID]*model.Farmer)}
}

func (r *stubFarmerRepo) Create(_ context.Context, f *model.Farmer) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.farmers[f.ID] = f
	return nil
}

func (r *stubFarmerRepo) Save(_ context.Context, f *model.Farmer) error {
	r.farmers[f.ID] = f
	return nil
}

func (r *stubFarmerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Farmer, error) {
	f, ok := r.farmers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *stubFarmerRepo) FindByCode(_ context.Context, code string) (*model.Farmer, error) {
	for _, f := range r.farmers {
		if f.FarmerCode == code {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubFarmerRepo) Search(_ context.Context, term string, limit int) ([]model.Farmer, error) {
	term = strings.ToLower(term)
	var out []model.Farmer
	for _, f := range r.farmers {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(f.FarmerCode), term) || strings.Contains(strings.ToLower(f.FullName), term) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *stubFarmerRepo) List(_ context.Context, activeOnly bool) ([]model.Farmer, error) {
	var out []model.Farmer
	for _, f := range r.farmers {
		if activeOnly && f.Status != model.PartyStatusActive {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (r *stubFarmerRepo) DB() *gorm.DB { return nil }

var _ repository.FarmerRepository = (*stubFarmerRepo)(nil)

type stubManufacturerRepo struct {
	manufacturers map[uuid.UUID]*model.Manufacturer
}

func newStubManufacturerRepo() *stubManufacturerRepo {
	return &stubManufacturerRepo{manufacturers: make(map[uuid.UUID]*model.Manufacturer)}
}

func (r *stubManufacturerRepo) Create(_ context.Context, m *model.Manufacturer) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.manufacturers[m.ID] = m
	return nil
}

func (r *stubManufacturerRepo) Save(_ context.Context, m *model.Manufacturer) error {
	r.manufacturers[m.ID] = m
	return nil
}

func (r *stubManufacturerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Manufacturer, error) {
	m, ok := r.manufacturers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubManufacturerRepo) Search(_ context.Context, term string, limit int) ([]model.Manufacturer, error) {
	term = strings.ToLower(term)
	var out []model.Manufacturer
	for _, m := range r.manufacturers {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(m.ManufacturerCode), term) || strings.Contains(strings.ToLower(m.CompanyName), term) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubManufacturerRepo) List(_ context.Context, activeOnly bool) ([]model.Manufacturer, error) {
	var out []model.Manufacturer
	for _, m := range r.manufacturers {
		if activeOnly && m.Status != model.PartyStatusActive {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubManufacturerRepo) DB() *gorm.DB { return nil }

var _ repository.ManufacturerRepository = (*stubManufacturerRepo)(nil)

// ── Grade repo stub ───────────────────────────────────────────────────────────

type stubGradeRepo struct {
	grades map[uuid.UUID]*model.Grade
}

func newStubGradeRepo() *stubGradeRepo {
	return &stubGradeRepo{grades: make(map[uuid.UUID]*model.Grade)}
}

func (r *stubGradeRepo) Create(_ context.Context, g *model.Grade) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.grades[g.ID] = g
	return nil
}

func (r *stubGradeRepo) Save(_ context.Context, g *model.Grade) error {
	r.grades[g.ID] = g
	return nil
}

func (r *stubGradeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Grade, error) {
	g, ok := r.grades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return g, nil
}

func (r *stubGradeRepo) FindDefault(_ context.Context) (*model.Grade, error) {
	var best *model.Grade
	for _, g := range r.grades {
		if !g.IsActive {
			continue
		}
		if best == nil || g.DisplayOrder < best.DisplayOrder {
			best = g
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubGradeRepo) List(_ context.Context, activeOnly bool) ([]model.Grade, error) {
	var out []model.Grade
	for _, g := range r.grades {
		if activeOnly && !g.IsActive {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (r *stubGradeRepo) DB() *gorm.DB { return nil }

var _ repository.GradeRepository = (*stubGradeRepo)(nil)

// ── Product repo stub ─────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Save(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByCode(_ context.Context, code string) (*model.Product, error) {
	for _, p := range r.products {
		if p.ProductCode == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, activeOnly bool) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) ListActiveIDs(_ context.Context) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, p.ID)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Sale repo stub ────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales    map[uuid.UUID]*model.SalesTransaction
	mappings []*model.SalesPurchaseMapping
	salesSeq map[string]int

	// duplicateCreates makes the next N Create calls fail as if the sales
	// number unique index fired.
	duplicateCreates int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales:    make(map[uuid.UUID]*model.SalesTransaction),
		salesSeq: make(map[string]int),
	}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.SalesTransaction) error {
	if r.duplicateCreates > 0 {
		r.duplicateCreates--
		return gorm.ErrDuplicatedKey
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) CreateMappingTx(_ context.Context, _ *gorm.DB, m *model.SalesPurchaseMapping) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mappings = append(r.mappings, m)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalesTransaction, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindBySalesNumber(_ context.Context, salesNumber string) (*model.SalesTransaction, error) {
	for _, s := range r.sales {
		if s.SalesNumber == salesNumber {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.SalesTransaction, error) {
	out := make([]model.SalesTransaction, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) NextSalesNumber(_ context.Context, _ *gorm.DB, prefix string) (string, error) {
	r.salesSeq[prefix]++
	return fmt.Sprintf("%s%04d", prefix, r.salesSeq[prefix]), nil
}

func (r *stubSaleRepo) TotalStats(_ context.Context, seasonID *uuid.UUID) (*repository.SaleStats, error) {
	stats := &repository.SaleStats{TotalNetWeightKg: decimal.Zero, TotalAmount: decimal.Zero}
	for _, s := range r.sales {
		if seasonID != nil && s.SeasonID != *seasonID {
			continue
		}
		stats.TotalTransactions++
		stats.TotalNetWeightKg = stats.TotalNetWeightKg.Add(s.NetWeightKg)
		stats.TotalAmount = stats.TotalAmount.Add(s.TotalAmount)
	}
	return stats, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Price repo stub ───────────────────────────────────────────────────────────

type pairKey struct {
	season  uuid.UUID
	product uuid.UUID
}

type stubPriceRepo struct {
	pairs   map[pairKey]*model.SeasonProductPrice
	history []*model.PriceHistory
}

func newStubPriceRepo() *stubPriceRepo {
	return &stubPriceRepo{pairs: make(map[pairKey]*model.SeasonProductPrice)}
}

func (r *stubPriceRepo) FindPair(_ context.Context, seasonID, productID uuid.UUID) (*model.SeasonProductPrice, error) {
	p, ok := r.pairs[pairKey{seasonID, productID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPriceRepo) UpsertCurrentTx(_ context.Context, _ *gorm.DB, p *model.SeasonProductPrice) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pairs[pairKey{p.SeasonID, p.ProductID}] = p
	return nil
}

func (r *stubPriceRepo) AppendHistoryTx(_ context.Context, _ *gorm.DB, h *model.PriceHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.history = append(r.history, h)
	return nil
}

func (r *stubPriceRepo) LatestAt(_ context.Context, seasonID, productID uuid.UUID, at time.Time) (*model.PriceHistory, error) {
	var best *model.PriceHistory
	for _, h := range r.history {
		if h.SeasonID != seasonID || h.ProductID != productID || h.EffectiveDate.After(at) {
			continue
		}
		if best == nil || h.EffectiveDate.After(best.EffectiveDate) {
			best = h
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubPriceRepo) ListHistory(_ context.Context, seasonID, productID uuid.UUID) ([]model.PriceHistory, error) {
	var out []model.PriceHistory
	for _, h := range r.history {
		if h.SeasonID == seasonID && h.ProductID == productID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (r *stubPriceRepo) ListBySeason(_ context.Context, seasonID uuid.UUID) ([]model.SeasonProductPrice, error) {
	var out []model.SeasonProductPrice
	for k, p := range r.pairs {
		if k.season == seasonID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPriceRepo) DB() *gorm.DB { return nil }

var _ repository.PriceRepository = (*stubPriceRepo)(nil)

// ── Locker stub ───────────────────────────────────────────────────────────────

type stubLock struct{ released bool }

func (l *stubLock) Release(_ context.Context) error {
	l.released = true
	return nil
}

type stubLocker struct {
	keys  []string
	locks []*stubLock
}

func (l *stubLocker) Obtain(_ context.Context, key string, _ time.Duration) (Lock, error) {
	lock := &stubLock{}
	l.keys = append(l.keys, key)
	l.locks = append(l.locks, lock)
	return lock, nil
}

var _ Locker = (*stubLocker)(nil)

type stubDispatcher struct {
	payloads []interface{}
}

func (d *stubDispatcher) EnqueueReceipt(_ context.Context, payload interface{}) error {
	d.payloads = append(d.payloads, payload)
	return nil
}

var _ ReceiptDispatcher = (*stubDispatcher)(nil)

// ── Fixtures ──────────────────────────────────────────────────────────────────

func activeSeason(code string) *model.Season {
	return &model.Season{
		ID:                 uuid.New(),
		SeasonCode:         code,
		SeasonName:         "Main Season " + code,
		Year:               2025,
		SeasonNumber:       1,
		Mode:               model.SeasonModeLive,
		OpeningPricePerTon: d("1800"),
		CurrentPricePerTon: d("1800"),
		Status:             model.SeasonStatusActive,
	}
}

func activeFarmer(code string) *model.Farmer {
	return &model.Farmer{
		ID:         uuid.New(),
		FarmerCode: code,
		FullName:   "Farmer " + code,
		Status:     model.PartyStatusActive,
	}
}

func gradeA() *model.Grade {
	return &model.Grade{
		ID:               uuid.New(),
		GradeCode:        "A",
		GradeName:        "Grade A",
		MinMoisture:      d("0"),
		MaxMoisture:      d("14"),
		MaxForeignMatter: d("2"),
		DisplayOrder:     1,
		IsActive:         true,
	}
}

func seedProduct(code string) *model.Product {
	return &model.Product{
		ID:          uuid.New(),
		ProductCode: code,
		ProductName: "Paddy " + code,
		ProductType: "BENIH",
		Variety:     code,
		IsActive:    true,
	}
}

func activeManufacturer(code string) *model.Manufacturer {
	return &model.Manufacturer{
		ID:               uuid.New(),
		ManufacturerCode: code,
		CompanyName:      "Mill " + code,
		Status:           model.PartyStatusActive,
	}
}
