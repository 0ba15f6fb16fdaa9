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
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	salesNumberPrefix  = "SALE"
	salesNumberLockTTL = 5 * time.Second
	salesNumberRetries = 3
)

// allocationToleranceKg bounds the gap allowed between the weighed sale net
// weight and the sum of requested allocations.
var allocationToleranceKg = decimal.NewFromInt(1)

// Lock is a held distributed lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker serializes sales-number generation across processes for one
// calendar day. The unique index on sales_number remains the backstop when
// the lock cannot be obtained.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

type SaleService interface {
	Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.CreateSaleResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	GetBySalesNumber(ctx context.Context, salesNumber string) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error)
	TotalStats(ctx context.Context, seasonID *uuid.UUID) (*dto.SaleStatsResponse, error)
}

type saleService struct {
	repo             repository.SaleRepository
	purchaseRepo     repository.PurchaseRepository
	seasonRepo       repository.SeasonRepository
	manufacturerRepo repository.ManufacturerRepository
	productRepo      repository.ProductRepository
	purchases        PurchaseService
	locker           Locker
}

func NewSaleService(
	repo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	seasonRepo repository.SeasonRepository,
	manufacturerRepo repository.ManufacturerRepository,
	productRepo repository.ProductRepository,
	purchases PurchaseService,
	locker Locker,
) SaleService {
	return &saleService{
		repo:             repo,
		purchaseRepo:     purchaseRepo,
		seasonRepo:       seasonRepo,
		manufacturerRepo: manufacturerRepo,
		productRepo:      productRepo,
		purchases:        purchases,
		locker:           locker,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// One atomic transaction: sales number, header, then per allocation a row
// lock on the purchase, an auto-split when the requested quantity is below
// the receipt's weight, and a mapping row. Any failure rolls back the whole
// sale, splits included.

func (s *saleService) Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.CreateSaleResponse, error) {
	seasonID, err := uuid.Parse(req.SeasonID)
	if err != nil {
		return nil, apierror.Validation("season_id: %v", err)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("product_id: %v", err)
	}
	manufacturerID, err := uuid.Parse(req.ManufacturerID)
	if err != nil {
		return nil, apierror.Validation("manufacturer_id: %v", err)
	}
	createdBy, err := uuid.Parse(req.CreatedBy)
	if err != nil {
		return nil, apierror.Validation("created_by: %v", err)
	}

	if !req.GrossWeightKg.IsPositive() {
		return nil, apierror.Validation("gross weight must be positive, got %s", req.GrossWeightKg)
	}
	if req.TareWeightKg.IsNegative() {
		return nil, apierror.Validation("tare weight cannot be negative, got %s", req.TareWeightKg)
	}
	if !req.GrossWeightKg.GreaterThan(req.TareWeightKg) {
		return nil, apierror.Validation("gross weight %s must exceed tare weight %s", req.GrossWeightKg, req.TareWeightKg)
	}
	if !req.SalePricePerKg.IsPositive() {
		return nil, apierror.Validation("sale price must be positive, got %s", req.SalePricePerKg)
	}

	netWeight := req.GrossWeightKg.Sub(req.TareWeightKg)

	type parsedAllocation struct {
		purchaseID uuid.UUID
		quantityKg decimal.Decimal
	}
	allocations := make([]parsedAllocation, 0, len(req.Allocations))
	allocatedTotal := decimal.Zero
	for i, a := range req.Allocations {
		pid, err := uuid.Parse(a.PurchaseTransactionID)
		if err != nil {
			return nil, apierror.Validation("allocations[%d].purchase_transaction_id: %v", i, err)
		}
		if !a.QuantityKg.IsPositive() {
			return nil, apierror.Validation("allocations[%d]: quantity must be positive, got %s", i, a.QuantityKg)
		}
		allocations = append(allocations, parsedAllocation{purchaseID: pid, quantityKg: a.QuantityKg})
		allocatedTotal = allocatedTotal.Add(a.QuantityKg)
	}
	if allocatedTotal.Sub(netWeight).Abs().GreaterThan(allocationToleranceKg) {
		return nil, apierror.Validation("allocated %s kg does not match sale net weight %s kg", allocatedTotal, netWeight)
	}

	season, err := s.seasonRepo.FindByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("season %s not found", seasonID)
		}
		return nil, apierror.Storage(err)
	}
	if season.Status == model.SeasonStatusClosed || season.Status == model.SeasonStatusCancelled {
		return nil, apierror.Validation("season %s is %s and cannot accept sales", season.SeasonCode, season.Status)
	}

	manufacturer, err := s.manufacturerRepo.FindByID(ctx, manufacturerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("manufacturer %s not found", manufacturerID)
		}
		return nil, apierror.Storage(err)
	}
	if manufacturer.Status != model.PartyStatusActive {
		return nil, apierror.Validation("manufacturer %s is inactive", manufacturer.ManufacturerCode)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product %s not found", productID)
		}
		return nil, apierror.Storage(err)
	}

	day := time.Now().Format("20060102")
	prefix := fmt.Sprintf("%s-%s-", salesNumberPrefix, day)

	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, "salesno:"+day, salesNumberLockTTL)
		if err != nil {
			log.Warn().Err(err).Msg("sales number lock not obtained, relying on unique index")
		} else {
			defer func() {
				if rerr := lock.Release(context.Background()); rerr != nil {
					log.Warn().Err(rerr).Msg("sales number lock release failed")
				}
			}()
		}
	}

	totalAmount := netWeight.Mul(req.SalePricePerKg).Round(2)

	var (
		sale            model.SalesTransaction
		splitsPerformed int
	)
	var txErr error
	for attempt := 0; attempt < salesNumberRetries; attempt++ {
		splitsPerformed = 0
		sale = model.SalesTransaction{
			SeasonID:       seasonID,
			ProductID:      productID,
			ManufacturerID: manufacturerID,
			SaleDate:       time.Now(),
			GrossWeightKg:  req.GrossWeightKg,
			TareWeightKg:   req.TareWeightKg,
			NetWeightKg:    netWeight,
			SalePricePerKg: req.SalePricePerKg,
			TotalAmount:    totalAmount,
			VehicleNumber:  req.VehicleNumber,
			DriverName:     req.DriverName,
			Notes:          req.Notes,
			Status:         "completed",
			PaymentStatus:  model.SalePaymentPending,
			CreatedBy:      createdBy,
		}

		txErr = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			number, err := s.repo.NextSalesNumber(ctx, tx, prefix)
			if err != nil {
				return err
			}
			sale.SalesNumber = number
			if err := s.repo.Create(ctx, tx, &sale); err != nil {
				return err
			}

			for _, alloc := range allocations {
				consumed, split, err := s.consumeAllocation(ctx, tx, seasonID, productID, alloc.purchaseID, alloc.quantityKg, createdBy)
				if err != nil {
					return err
				}
				if split {
					splitsPerformed++
				}
				mapping := &model.SalesPurchaseMapping{
					SalesID:       sale.ID,
					TransactionID: consumed.ID,
					QuantityKg:    alloc.quantityKg,
					GradeID:       consumed.GradeID,
					CreatedBy:     createdBy,
				}
				if err := s.repo.CreateMappingTx(ctx, tx, mapping); err != nil {
					return err
				}
			}
			return nil
		})
		if txErr == nil || !errors.Is(txErr, gorm.ErrDuplicatedKey) {
			break
		}
		log.Warn().Str("sales_number", sale.SalesNumber).Int("attempt", attempt+1).
			Msg("sales number collision, retrying")
	}
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}

	log.Info().
		Str("sales_number", sale.SalesNumber).
		Str("manufacturer", manufacturer.CompanyName).
		Str("net_weight_kg", netWeight.String()).
		Int("splits", splitsPerformed).
		Msg("sale recorded")

	return &dto.CreateSaleResponse{
		SalesID:         sale.ID.String(),
		SalesNumber:     sale.SalesNumber,
		TotalAmount:     totalAmount,
		SplitsPerformed: splitsPerformed,
		ReceiptsCount:   len(allocations),
	}, nil
}

// consumeAllocation locks one purchase and returns the transaction the
// mapping must point at. A request below the receipt's full weight splits the
// receipt and consumes the carved-out child; the remainder child stays
// available for later sales. A receipt that already has partial sales cannot
// be split again, so the request must then take the remainder exactly.
func (s *saleService) consumeAllocation(ctx context.Context, tx *gorm.DB, seasonID, productID, purchaseID uuid.UUID, quantityKg decimal.Decimal, actorID uuid.UUID) (*model.PurchaseTransaction, bool, error) {
	purchase, err := s.purchaseRepo.FindByIDForUpdate(ctx, tx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apierror.NotFound("purchase %s not found", purchaseID)
		}
		return nil, false, err
	}
	if purchase.Status != model.PurchaseStatusCompleted {
		return nil, false, apierror.Conflict("purchase %s is %s", purchase.ReceiptNumber, purchase.Status)
	}
	if purchase.SeasonID != seasonID {
		return nil, false, apierror.Validation("purchase %s belongs to another season", purchase.ReceiptNumber)
	}
	if purchase.ProductID != productID {
		return nil, false, apierror.Validation("purchase %s holds a different product", purchase.ReceiptNumber)
	}

	hasChildren, err := s.purchaseRepo.HasChildrenTx(ctx, tx, purchase.ID)
	if err != nil {
		return nil, false, err
	}
	if hasChildren {
		return nil, false, apierror.Conflict("purchase %s was split and can no longer be sold directly", purchase.ReceiptNumber)
	}

	sold, err := s.purchaseRepo.SoldQuantityTx(ctx, tx, purchase.ID)
	if err != nil {
		return nil, false, err
	}
	available := purchase.NetWeightKg.Sub(sold)
	if !available.IsPositive() {
		return nil, false, apierror.Conflict("purchase %s is fully sold", purchase.ReceiptNumber)
	}
	if quantityKg.GreaterThan(available) {
		return nil, false, apierror.Conflict("purchase %s has only %s kg available, %s kg requested", purchase.ReceiptNumber, available, quantityKg)
	}

	if quantityKg.Equal(available) {
		return purchase, false, nil
	}

	if sold.IsPositive() {
		return nil, false, apierror.Conflict("purchase %s already has partial sales; allocate its remaining %s kg exactly", purchase.ReceiptNumber, available)
	}

	child1, _, err := s.purchases.SplitTx(ctx, tx, purchase, quantityKg, actorID)
	if err != nil {
		return nil, false, err
	}
	return child1, true, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("sale %s not found", id)
		}
		return nil, apierror.Storage(err)
	}
	resp := dto.FromSale(sale)
	return &resp, nil
}

func (s *saleService) GetBySalesNumber(ctx context.Context, salesNumber string) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindBySalesNumber(ctx, salesNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("sale %s not found", salesNumber)
		}
		return nil, apierror.Storage(err)
	}
	resp := dto.FromSale(sale)
	return &resp, nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleResponse, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.SaleResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromSale(&rows[i]))
	}
	return out, nil
}

func (s *saleService) TotalStats(ctx context.Context, seasonID *uuid.UUID) (*dto.SaleStatsResponse, error) {
	stats, err := s.repo.TotalStats(ctx, seasonID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return &dto.SaleStatsResponse{
		TotalTransactions: stats.TotalTransactions,
		TotalNetWeightKg:  stats.TotalNetWeightKg,
		TotalAmount:       stats.TotalAmount,
	}, nil
}
