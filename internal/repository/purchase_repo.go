package repository

import (
	"context"
	"fmt"
	"time"

	"paddyledger/internal/dto"
	"paddyledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnsoldPurchaseRow is the read model feeding the sale-allocation UI.
type UnsoldPurchaseRow struct {
	TransactionID       uuid.UUID       `gorm:"column:transaction_id"`
	ReceiptNumber       string          `gorm:"column:receipt_number"`
	TransactionDate     time.Time       `gorm:"column:transaction_date"`
	FarmerCode          string          `gorm:"column:farmer_code"`
	FarmerName          string          `gorm:"column:farmer_name"`
	GradeID             uuid.UUID       `gorm:"column:grade_id"`
	GradeName           string          `gorm:"column:grade_name"`
	ProductID           uuid.UUID       `gorm:"column:product_id"`
	NetWeightKg         decimal.Decimal `gorm:"column:net_weight_kg"`
	SoldQuantityKg      decimal.Decimal `gorm:"column:sold_quantity_kg"`
	AvailableQuantityKg decimal.Decimal `gorm:"column:available_quantity_kg"`
	ParentTransactionID *uuid.UUID      `gorm:"column:parent_transaction_id"`
}

// PurchaseStats aggregates completed purchases.
type PurchaseStats struct {
	TotalTransactions int64           `gorm:"column:total_transactions"`
	TotalNetWeightKg  decimal.Decimal `gorm:"column:total_net_weight_kg"`
	TotalAmount       decimal.Decimal `gorm:"column:total_amount"`
}

type PurchaseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.PurchaseTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseTransaction, error)
	// FindByIDForUpdate locks the purchase row until tx commits. Every
	// split / sale-allocation decision reads remaining capacity under this
	// lock.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.PurchaseTransaction, error)
	FindByReceipt(ctx context.Context, receiptNumber string) (*model.PurchaseTransaction, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.PurchaseTransaction, error)
	ListUnsold(ctx context.Context, seasonID *uuid.UUID) ([]UnsoldPurchaseRow, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.PurchaseTransaction, error)
	SoldQuantityTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (decimal.Decimal, error)
	HasChildrenTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)
	UpdateFarmerTx(ctx context.Context, tx *gorm.DB, id, farmerID uuid.UUID) error
	UpdateChildrenFarmerTx(ctx context.Context, tx *gorm.DB, parentID, farmerID uuid.UUID) error
	UpdatePayment(ctx context.Context, id uuid.UUID, status string, reference *string) error
	// NextReceiptNumber reserves the next season-scoped receipt number.
	// Must run inside the same transaction as the purchase insert.
	NextReceiptNumber(ctx context.Context, tx *gorm.DB, seasonID uuid.UUID, seasonCode string) (string, error)
	TotalStats(ctx context.Context, seasonID *uuid.UUID) (*PurchaseStats, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) Create(ctx context.Context, tx *gorm.DB, p *model.PurchaseTransaction) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseTransaction, error) {
	var p model.PurchaseTransaction
	err := r.db.WithContext(ctx).
		Preload("Farmer").Preload("Grade").Preload("Season").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.PurchaseTransaction, error) {
	var p model.PurchaseTransaction
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) FindByReceipt(ctx context.Context, receiptNumber string) (*model.PurchaseTransaction, error) {
	var p model.PurchaseTransaction
	err := r.db.WithContext(ctx).
		Preload("Farmer").Preload("Grade").Preload("Season").
		First(&p, "receipt_number = ?", receiptNumber).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.PurchaseTransaction, error) {
	q := r.db.WithContext(ctx).Model(&model.PurchaseTransaction{})

	if filter.SeasonID != "" {
		q = q.Where("season_id = ?", filter.SeasonID)
	}
	if filter.FarmerID != "" {
		q = q.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != "" {
		q = q.Where("transaction_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("transaction_date < (?::date + 1)", filter.DateTo)
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}

	var rows []model.PurchaseTransaction
	err := q.Preload("Farmer").Preload("Grade").
		Order("transaction_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ListUnsold returns receipts with remaining sellable weight. Split parents
// are excluded through the NOT EXISTS — the moment a receipt has children it
// is retired from sales. Split children sort first so the allocation UI
// consumes carved-out portions before touching fresh receipts.
func (r *purchaseRepo) ListUnsold(ctx context.Context, seasonID *uuid.UUID) ([]UnsoldPurchaseRow, error) {
	sql := `
		SELECT
			pt.id AS transaction_id,
			pt.receipt_number,
			pt.transaction_date,
			f.farmer_code,
			f.full_name AS farmer_name,
			pt.grade_id,
			pg.grade_name,
			pt.product_id,
			pt.net_weight_kg,
			COALESCE(SUM(spm.quantity_kg), 0) AS sold_quantity_kg,
			pt.net_weight_kg - COALESCE(SUM(spm.quantity_kg), 0) AS available_quantity_kg,
			pt.parent_transaction_id
		FROM purchase_transactions pt
		JOIN farmers f ON pt.farmer_id = f.id
		JOIN paddy_grades pg ON pt.grade_id = pg.id
		LEFT JOIN sales_purchase_mapping spm ON pt.id = spm.transaction_id
		WHERE pt.status = 'completed'
		  AND NOT EXISTS (
			SELECT 1 FROM purchase_transactions c WHERE c.parent_transaction_id = pt.id
		  )`
	args := []interface{}{}
	if seasonID != nil {
		sql += ` AND pt.season_id = ?`
		args = append(args, *seasonID)
	}
	sql += `
		GROUP BY pt.id, pt.receipt_number, pt.transaction_date, f.farmer_code,
			f.full_name, pt.grade_id, pg.grade_name, pt.product_id,
			pt.net_weight_kg, pt.parent_transaction_id
		HAVING pt.net_weight_kg - COALESCE(SUM(spm.quantity_kg), 0) > 0
		ORDER BY (pt.parent_transaction_id IS NULL), pt.transaction_date DESC`

	var rows []UnsoldPurchaseRow
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error
	return rows, err
}

func (r *purchaseRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.PurchaseTransaction, error) {
	var rows []model.PurchaseTransaction
	err := r.db.WithContext(ctx).
		Where("parent_transaction_id = ?", parentID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *purchaseRepo) SoldQuantityTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (decimal.Decimal, error) {
	var sold decimal.Decimal
	err := tx.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(quantity_kg), 0) FROM sales_purchase_mapping WHERE transaction_id = ?`, id).
		Scan(&sold).Error
	return sold, err
}

func (r *purchaseRepo) HasChildrenTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&model.PurchaseTransaction{}).
		Where("parent_transaction_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *purchaseRepo) UpdateFarmerTx(ctx context.Context, tx *gorm.DB, id, farmerID uuid.UUID) error {
	return tx.WithContext(ctx).
		Model(&model.PurchaseTransaction{}).
		Where("id = ?", id).
		Update("farmer_id", farmerID).Error
}

func (r *purchaseRepo) UpdateChildrenFarmerTx(ctx context.Context, tx *gorm.DB, parentID, farmerID uuid.UUID) error {
	return tx.WithContext(ctx).
		Model(&model.PurchaseTransaction{}).
		Where("parent_transaction_id = ?", parentID).
		Update("farmer_id", farmerID).Error
}

func (r *purchaseRepo) UpdatePayment(ctx context.Context, id uuid.UUID, status string, reference *string) error {
	updates := map[string]interface{}{"payment_status": status}
	if reference != nil {
		updates["payment_reference"] = *reference
	}
	return r.db.WithContext(ctx).
		Model(&model.PurchaseTransaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// NextReceiptNumber locks (creating if absent) the season's counter row and
// increments it. The FOR UPDATE lock is held until tx commits, so a
// concurrent purchase in the same season blocks here rather than reading the
// same number.
func (r *purchaseRepo) NextReceiptNumber(ctx context.Context, tx *gorm.DB, seasonID uuid.UUID, seasonCode string) (string, error) {
	var counter model.ReceiptCounter
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("season_id = ?", seasonID).
		FirstOrCreate(&counter, model.ReceiptCounter{SeasonID: seasonID}).Error
	if err != nil {
		return "", err
	}

	counter.LastNumber++
	if err := tx.WithContext(ctx).
		Model(&model.ReceiptCounter{}).
		Where("season_id = ?", seasonID).
		Update("last_number", counter.LastNumber).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%06d", seasonCode, counter.LastNumber), nil
}

// TotalStats counts original receipts only (children excluded — their weight
// is already inside the parent's). When no season is given, DEMO seasons are
// filtered out so demonstration data never distorts real totals.
func (r *purchaseRepo) TotalStats(ctx context.Context, seasonID *uuid.UUID) (*PurchaseStats, error) {
	sql := `
		SELECT
			COUNT(*) AS total_transactions,
			COALESCE(SUM(pt.net_weight_kg), 0) AS total_net_weight_kg,
			COALESCE(SUM(pt.total_amount), 0) AS total_amount
		FROM purchase_transactions pt
		JOIN harvesting_seasons hs ON pt.season_id = hs.id
		WHERE pt.status = 'completed'
		  AND pt.parent_transaction_id IS NULL`
	args := []interface{}{}
	if seasonID != nil {
		sql += ` AND pt.season_id = ?`
		args = append(args, *seasonID)
	} else {
		sql += ` AND hs.mode = 'LIVE'`
	}

	var stats PurchaseStats
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
