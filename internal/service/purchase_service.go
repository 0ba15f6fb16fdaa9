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

// Fallback penalty applied when a purchase arrives without a deduction
// config: each point of moisture or foreign matter above the grade's maximum
// costs this fraction of the base price per kg.
var penaltyPerExcessPoint = decimal.NewFromFloat(0.01)

// ReceiptDispatcher enqueues a receipt render job after a purchase commits.
// A nil dispatcher disables rendering; enqueue failures never fail the
// purchase.
type ReceiptDispatcher interface {
	EnqueueReceipt(ctx context.Context, payload interface{}) error
}

type PurchaseService interface {
	Create(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.CreatePurchaseResponse, error)
	Split(ctx context.Context, id uuid.UUID, req dto.SplitPurchaseRequest) (*dto.SplitPurchaseResponse, error)
	// SplitTx carves splitWeightKg out of an already-locked parent inside a
	// live transaction. The sale service calls this for auto-splits so the
	// whole sale commits or rolls back as one unit.
	SplitTx(ctx context.Context, tx *gorm.DB, parent *model.PurchaseTransaction, splitWeightKg decimal.Decimal, actorID uuid.UUID) (*model.PurchaseTransaction, *model.PurchaseTransaction, error)
	ChangeFarmer(ctx context.Context, id uuid.UUID, req dto.ChangeFarmerRequest) error
	UpdatePayment(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentRequest) error
	CancelPendingLorry(ctx context.Context, req dto.CancelPendingLorryRequest) (*dto.PurchaseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	GetByReceipt(ctx context.Context, receiptNumber string) (*dto.PurchaseResponse, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]dto.PurchaseResponse, error)
	ListUnsold(ctx context.Context, seasonID *uuid.UUID) ([]dto.UnsoldPurchaseResponse, error)
	GetSplitChildren(ctx context.Context, parentID uuid.UUID) ([]dto.PurchaseResponse, error)
	TotalStats(ctx context.Context, seasonID *uuid.UUID) (*dto.PurchaseStatsResponse, error)
}

type purchaseService struct {
	repo       repository.PurchaseRepository
	seasonRepo repository.SeasonRepository
	farmerRepo repository.FarmerRepository
	gradeRepo  repository.GradeRepository
	dispatcher ReceiptDispatcher
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	seasonRepo repository.SeasonRepository,
	farmerRepo repository.FarmerRepository,
	gradeRepo repository.GradeRepository,
	dispatcher ReceiptDispatcher,
) PurchaseService {
	return &purchaseService{
		repo:       repo,
		seasonRepo: seasonRepo,
		farmerRepo: farmerRepo,
		gradeRepo:  gradeRepo,
		dispatcher: dispatcher,
	}
}

// ── Create ────────────────────────────────────────────────────────────────────
// One atomic transaction: reserve receipt number, compute derived amounts,
// insert. The receipt counter row lock guarantees at most one committed row
// per generated number.

func (s *purchaseService) Create(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.CreatePurchaseResponse, error) {
	seasonID, err := uuid.Parse(req.SeasonID)
	if err != nil {
		return nil, apierror.Validation("season_id: %v", err)
	}
	farmerID, err := uuid.Parse(req.FarmerID)
	if err != nil {
		return nil, apierror.Validation("farmer_id: %v", err)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("product_id: %v", err)
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
	if !req.BasePricePerKg.IsPositive() {
		return nil, apierror.Validation("base price must be positive, got %s", req.BasePricePerKg)
	}

	season, err := s.seasonRepo.FindByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("season %s not found", seasonID)
		}
		return nil, apierror.Storage(err)
	}
	if season.Status == model.SeasonStatusClosed || season.Status == model.SeasonStatusCancelled {
		return nil, apierror.Validation("season %s is %s and cannot accept purchases", season.SeasonCode, season.Status)
	}

	farmer, err := s.farmerRepo.FindByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("farmer %s not found", farmerID)
		}
		return nil, apierror.Storage(err)
	}
	if farmer.Status != model.PartyStatusActive {
		return nil, apierror.Validation("farmer %s is inactive", farmer.FarmerCode)
	}

	grade, err := s.resolveGrade(ctx, req.GradeID)
	if err != nil {
		return nil, err
	}

	netWeight := req.GrossWeightKg.Sub(req.TareWeightKg)

	var (
		deductionItems  model.DeductionItems
		deductionRate   decimal.Decimal
		effectiveWeight decimal.Decimal
		moisturePen     decimal.Decimal
		fmPen           decimal.Decimal
		finalPrice      decimal.Decimal
	)

	if len(req.DeductionConfig) > 0 {
		for _, item := range req.DeductionConfig {
			deductionItems = append(deductionItems, model.DeductionItem{Name: item.Name, Percent: item.Percent})
		}
		result, err := CalculateDeduction(netWeight, deductionItems)
		if err != nil {
			return nil, err
		}
		deductionRate = result.TotalRate
		effectiveWeight = result.EffectiveWeightKg
		finalPrice = req.BasePricePerKg
	} else {
		// No explicit config: quality readings above the grade's maxima
		// reduce the price per kg instead of the weight.
		effectiveWeight = netWeight
		moisturePen = excessPenalty(req.BasePricePerKg, req.MoistureContent, grade.MaxMoisture)
		fmPen = excessPenalty(req.BasePricePerKg, req.ForeignMatter, grade.MaxForeignMatter)
		finalPrice = req.BasePricePerKg.Sub(moisturePen).Sub(fmPen)
		if finalPrice.IsNegative() {
			return nil, apierror.Validation("quality penalties %s exceed the base price %s", moisturePen.Add(fmPen), req.BasePricePerKg)
		}
	}

	totalAmount := effectiveWeight.Mul(finalPrice).Round(2)

	purchase := model.PurchaseTransaction{
		SeasonID:             seasonID,
		FarmerID:             farmerID,
		GradeID:              grade.ID,
		ProductID:            productID,
		TransactionDate:      time.Now(),
		GrossWeightKg:        req.GrossWeightKg,
		TareWeightKg:         req.TareWeightKg,
		NetWeightKg:          netWeight,
		EffectiveWeightKg:    effectiveWeight,
		MoistureContent:      req.MoistureContent,
		ForeignMatter:        req.ForeignMatter,
		BasePricePerKg:       req.BasePricePerKg,
		MoisturePenalty:      moisturePen,
		ForeignMatterPenalty: fmPen,
		DeductionConfig:      deductionItems,
		DeductionRate:        deductionRate,
		FinalPricePerKg:      finalPrice,
		TotalAmount:          totalAmount,
		VehicleNumber:        req.VehicleNumber,
		DriverName:           req.DriverName,
		Status:               model.PurchaseStatusCompleted,
		PaymentStatus:        model.PaymentStatusUnpaid,
		CreatedBy:            createdBy,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		number, err := s.repo.NextReceiptNumber(ctx, tx, seasonID, season.SeasonCode)
		if err != nil {
			return err
		}
		purchase.ReceiptNumber = number
		return s.repo.Create(ctx, tx, &purchase)
	})
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}

	// Receipt rendering is best-effort and must not fail the purchase.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, map[string]interface{}{
			"transaction_id": purchase.ID.String(),
			"receipt_number": purchase.ReceiptNumber,
		})
	}

	return &dto.CreatePurchaseResponse{
		TransactionID: purchase.ID.String(),
		ReceiptNumber: purchase.ReceiptNumber,
		ComputedAmounts: dto.ComputedAmounts{
			NetWeightKg:          netWeight,
			EffectiveWeightKg:    effectiveWeight,
			DeductedWeightKg:     netWeight.Sub(effectiveWeight),
			DeductionRate:        deductionRate,
			MoisturePenalty:      moisturePen,
			ForeignMatterPenalty: fmPen,
			FinalPricePerKg:      finalPrice,
			TotalAmount:          totalAmount,
		},
	}, nil
}

func (s *purchaseService) resolveGrade(ctx context.Context, gradeID *string) (*model.Grade, error) {
	if gradeID != nil && *gradeID != "" {
		id, err := uuid.Parse(*gradeID)
		if err != nil {
			return nil, apierror.Validation("grade_id: %v", err)
		}
		grade, err := s.gradeRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound("grade %s not found", id)
			}
			return nil, apierror.Storage(err)
		}
		return grade, nil
	}
	grade, err := s.gradeRepo.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Configuration("no active grade configured to use as default")
		}
		return nil, apierror.Storage(err)
	}
	return grade, nil
}

func excessPenalty(basePrice, reading, maximum decimal.Decimal) decimal.Decimal {
	excess := reading.Sub(maximum)
	if !excess.IsPositive() {
		return decimal.Zero
	}
	return basePrice.Mul(penaltyPerExcessPoint).Mul(excess).Round(4)
}

// ── Split ─────────────────────────────────────────────────────────────────────

func (s *purchaseService) Split(ctx context.Context, id uuid.UUID, req dto.SplitPurchaseRequest) (*dto.SplitPurchaseResponse, error) {
	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		return nil, apierror.Validation("actor_id: %v", err)
	}

	var child1, child2 *model.PurchaseTransaction
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		parent, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("purchase %s not found", id)
			}
			return err
		}

		sold, err := s.repo.SoldQuantityTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if sold.IsPositive() {
			return apierror.Conflict("purchase %s has recorded sales and cannot be split", parent.ReceiptNumber)
		}

		child1, child2, err = s.splitLocked(ctx, tx, parent, req.SplitWeightKg, actorID)
		return err
	})
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}

	return &dto.SplitPurchaseResponse{
		Child1: dto.FromPurchase(child1),
		Child2: dto.FromPurchase(child2),
	}, nil
}

func (s *purchaseService) SplitTx(ctx context.Context, tx *gorm.DB, parent *model.PurchaseTransaction, splitWeightKg decimal.Decimal, actorID uuid.UUID) (*model.PurchaseTransaction, *model.PurchaseTransaction, error) {
	return s.splitLocked(ctx, tx, parent, splitWeightKg, actorID)
}

// splitLocked partitions a locked parent into two children. Conservation is
// exact: child2 takes the parent's net weight minus the requested split, and
// the parent's effective weight minus child1's, so no rounding drift can
// accumulate. The parent is retired from sales by the mere existence of its
// children.
func (s *purchaseService) splitLocked(ctx context.Context, tx *gorm.DB, parent *model.PurchaseTransaction, splitWeightKg decimal.Decimal, actorID uuid.UUID) (*model.PurchaseTransaction, *model.PurchaseTransaction, error) {
	if parent.Status == model.PurchaseStatusCancelled {
		return nil, nil, apierror.Conflict("purchase %s is cancelled", parent.ReceiptNumber)
	}
	hasChildren, err := s.repo.HasChildrenTx(ctx, tx, parent.ID)
	if err != nil {
		return nil, nil, err
	}
	if hasChildren {
		return nil, nil, apierror.Conflict("purchase %s was already split", parent.ReceiptNumber)
	}
	if !splitWeightKg.IsPositive() || !splitWeightKg.LessThan(parent.NetWeightKg) {
		return nil, nil, apierror.Validation("split weight %s must be between 0 and %s exclusive", splitWeightKg, parent.NetWeightKg)
	}

	season, err := s.seasonRepo.FindByID(ctx, parent.SeasonID)
	if err != nil {
		return nil, nil, err
	}

	weight1 := splitWeightKg
	weight2 := parent.NetWeightKg.Sub(splitWeightKg)

	effective1 := effectiveAtRate(weight1, parent.DeductionRate)
	effective2 := parent.EffectiveWeightKg.Sub(effective1)

	ratio1 := weight1.Div(parent.NetWeightKg)

	amount1 := effective1.Mul(parent.FinalPricePerKg).Round(2)
	amount2 := parent.TotalAmount.Sub(amount1)

	moisturePen1 := parent.MoisturePenalty.Mul(ratio1).Round(4)
	fmPen1 := parent.ForeignMatterPenalty.Mul(ratio1).Round(4)

	build := func(weight, effective, amount, moisturePen, fmPen decimal.Decimal) *model.PurchaseTransaction {
		parentID := parent.ID
		return &model.PurchaseTransaction{
			SeasonID:        parent.SeasonID,
			FarmerID:        parent.FarmerID,
			GradeID:         parent.GradeID,
			ProductID:       parent.ProductID,
			TransactionDate: parent.TransactionDate,
			// Splitting already-weighed paddy: no re-weighing, no tare.
			GrossWeightKg:        weight,
			TareWeightKg:         decimal.Zero,
			NetWeightKg:          weight,
			EffectiveWeightKg:    effective,
			MoistureContent:      parent.MoistureContent,
			ForeignMatter:        parent.ForeignMatter,
			BasePricePerKg:       parent.BasePricePerKg,
			MoisturePenalty:      moisturePen,
			ForeignMatterPenalty: fmPen,
			DeductionConfig:      parent.DeductionConfig,
			DeductionRate:        parent.DeductionRate,
			FinalPricePerKg:      parent.FinalPricePerKg,
			TotalAmount:          amount,
			VehicleNumber:        parent.VehicleNumber,
			DriverName:           parent.DriverName,
			Status:               model.PurchaseStatusCompleted,
			PaymentStatus:        parent.PaymentStatus,
			ParentTransactionID:  &parentID,
			CreatedBy:            actorID,
		}
	}

	child1 := build(weight1, effective1, amount1, moisturePen1, fmPen1)
	child2 := build(weight2, effective2, amount2,
		parent.MoisturePenalty.Sub(moisturePen1),
		parent.ForeignMatterPenalty.Sub(fmPen1))

	for _, child := range []*model.PurchaseTransaction{child1, child2} {
		number, err := s.repo.NextReceiptNumber(ctx, tx, parent.SeasonID, season.SeasonCode)
		if err != nil {
			return nil, nil, err
		}
		child.ReceiptNumber = number
		if err := s.repo.Create(ctx, tx, child); err != nil {
			return nil, nil, err
		}
	}

	log.Info().
		Str("parent", parent.ReceiptNumber).
		Str("child1", child1.ReceiptNumber).
		Str("child2", child2.ReceiptNumber).
		Str("split_weight_kg", splitWeightKg.String()).
		Str("actor_id", actorID.String()).
		Msg("purchase split")

	return child1, child2, nil
}

// ── Mutations ─────────────────────────────────────────────────────────────────

func (s *purchaseService) ChangeFarmer(ctx context.Context, id uuid.UUID, req dto.ChangeFarmerRequest) error {
	newFarmerID, err := uuid.Parse(req.NewFarmerID)
	if err != nil {
		return apierror.Validation("new_farmer_id: %v", err)
	}
	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		return apierror.Validation("actor_id: %v", err)
	}

	if _, err := s.farmerRepo.FindByID(ctx, newFarmerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("farmer %s not found", newFarmerID)
		}
		return apierror.Storage(err)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("purchase %s not found", id)
			}
			return err
		}
		if p.Status == model.PurchaseStatusCancelled {
			return apierror.Conflict("purchase %s is cancelled", p.ReceiptNumber)
		}
		if err := s.repo.UpdateFarmerTx(ctx, tx, id, newFarmerID); err != nil {
			return err
		}
		// Split children stay attributed to the same physical delivery.
		if err := s.repo.UpdateChildrenFarmerTx(ctx, tx, id, newFarmerID); err != nil {
			return err
		}

		log.Info().
			Str("receipt", p.ReceiptNumber).
			Str("old_farmer_id", p.FarmerID.String()).
			Str("new_farmer_id", newFarmerID.String()).
			Str("actor_id", actorID.String()).
			Str("reason", req.Reason).
			Msg("purchase farmer reassigned")
		return nil
	})
	return wrapStorage(txErr)
}

func (s *purchaseService) UpdatePayment(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentRequest) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("purchase %s not found", id)
		}
		return apierror.Storage(err)
	}
	if p.Status == model.PurchaseStatusCancelled {
		return apierror.Conflict("purchase %s is cancelled", p.ReceiptNumber)
	}
	if err := s.repo.UpdatePayment(ctx, id, req.PaymentStatus, req.PaymentReference); err != nil {
		return apierror.Storage(err)
	}
	return nil
}

// CancelPendingLorry records an aborted weigh-in as an auditable cancelled
// row. It reserves a real receipt number so the paper trail has no gaps.
func (s *purchaseService) CancelPendingLorry(ctx context.Context, req dto.CancelPendingLorryRequest) (*dto.PurchaseResponse, error) {
	seasonID, err := uuid.Parse(req.SeasonID)
	if err != nil {
		return nil, apierror.Validation("season_id: %v", err)
	}
	farmerID, err := uuid.Parse(req.FarmerID)
	if err != nil {
		return nil, apierror.Validation("farmer_id: %v", err)
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("product_id: %v", err)
	}
	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		return nil, apierror.Validation("actor_id: %v", err)
	}

	season, err := s.seasonRepo.FindByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("season %s not found", seasonID)
		}
		return nil, apierror.Storage(err)
	}
	grade, err := s.gradeRepo.FindDefault(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Configuration("no active grade configured to use as default")
		}
		return nil, apierror.Storage(err)
	}

	placeholder := model.PurchaseTransaction{
		SeasonID:          seasonID,
		FarmerID:          farmerID,
		GradeID:           grade.ID,
		ProductID:         productID,
		TransactionDate:   time.Now(),
		GrossWeightKg:     req.GrossWeightKg,
		TareWeightKg:      decimal.Zero,
		NetWeightKg:       req.GrossWeightKg,
		EffectiveWeightKg: decimal.Zero,
		BasePricePerKg:    decimal.Zero,
		FinalPricePerKg:   decimal.Zero,
		TotalAmount:       decimal.Zero,
		VehicleNumber:     req.VehicleNumber,
		DriverName:        req.DriverName,
		Status:            model.PurchaseStatusCancelled,
		PaymentStatus:     model.PaymentStatusUnpaid,
		CreatedBy:         actorID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		number, err := s.repo.NextReceiptNumber(ctx, tx, seasonID, season.SeasonCode)
		if err != nil {
			return err
		}
		placeholder.ReceiptNumber = number
		return s.repo.Create(ctx, tx, &placeholder)
	})
	if txErr != nil {
		return nil, wrapStorage(txErr)
	}

	log.Info().
		Str("receipt", placeholder.ReceiptNumber).
		Str("actor_id", actorID.String()).
		Str("reason", req.Reason).
		Msg("pending lorry cancelled")

	resp := dto.FromPurchase(&placeholder)
	return &resp, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *purchaseService) GetByID(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("purchase %s not found", id)
		}
		return nil, apierror.Storage(err)
	}
	resp := dto.FromPurchase(p)
	return &resp, nil
}

func (s *purchaseService) GetByReceipt(ctx context.Context, receiptNumber string) (*dto.PurchaseResponse, error) {
	p, err := s.repo.FindByReceipt(ctx, receiptNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("receipt %s not found", receiptNumber)
		}
		return nil, apierror.Storage(err)
	}
	resp := dto.FromPurchase(p)
	return &resp, nil
}

func (s *purchaseService) List(ctx context.Context, filter dto.PurchaseFilter) ([]dto.PurchaseResponse, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.PurchaseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPurchase(&rows[i]))
	}
	return out, nil
}

func (s *purchaseService) ListUnsold(ctx context.Context, seasonID *uuid.UUID) ([]dto.UnsoldPurchaseResponse, error) {
	rows, err := s.repo.ListUnsold(ctx, seasonID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.UnsoldPurchaseResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.UnsoldPurchaseResponse{
			TransactionID:       r.TransactionID.String(),
			ReceiptNumber:       r.ReceiptNumber,
			TransactionDate:     r.TransactionDate.Format("2006-01-02T15:04:05Z07:00"),
			FarmerCode:          r.FarmerCode,
			FarmerName:          r.FarmerName,
			GradeID:             r.GradeID.String(),
			GradeName:           r.GradeName,
			ProductID:           r.ProductID.String(),
			OriginalWeightKg:    r.NetWeightKg,
			SoldQuantityKg:      r.SoldQuantityKg,
			AvailableQuantityKg: r.AvailableQuantityKg,
			IsSplitChild:        r.ParentTransactionID != nil,
		})
	}
	return out, nil
}

func (s *purchaseService) GetSplitChildren(ctx context.Context, parentID uuid.UUID) ([]dto.PurchaseResponse, error) {
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("purchase %s not found", parentID)
		}
		return nil, apierror.Storage(err)
	}
	rows, err := s.repo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	out := make([]dto.PurchaseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPurchase(&rows[i]))
	}
	return out, nil
}

func (s *purchaseService) TotalStats(ctx context.Context, seasonID *uuid.UUID) (*dto.PurchaseStatsResponse, error) {
	stats, err := s.repo.TotalStats(ctx, seasonID)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return &dto.PurchaseStatsResponse{
		TotalTransactions: stats.TotalTransactions,
		TotalNetWeightKg:  stats.TotalNetWeightKg,
		TotalAmount:       stats.TotalAmount,
	}, nil
}
