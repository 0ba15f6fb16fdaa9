package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"paddyledger/internal/dto"
	"paddyledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleStats aggregates sales transactions.
type SaleStats struct {
	TotalTransactions int64           `gorm:"column:total_transactions"`
	TotalNetWeightKg  decimal.Decimal `gorm:"column:total_net_weight_kg"`
	TotalAmount       decimal.Decimal `gorm:"column:total_amount"`
}

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.SalesTransaction) error
	CreateMappingTx(ctx context.Context, tx *gorm.DB, m *model.SalesPurchaseMapping) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesTransaction, error)
	FindBySalesNumber(ctx context.Context, salesNumber string) (*model.SalesTransaction, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.SalesTransaction, error)
	// NextSalesNumber computes the next sequence number for the given
	// day prefix (SALE-YYYYMMDD-). Callers serialize through a day-scoped
	// lock; the unique index on sales_number is the backstop.
	NextSalesNumber(ctx context.Context, tx *gorm.DB, prefix string) (string, error)
	TotalStats(ctx context.Context, seasonID *uuid.UUID) (*SaleStats, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.SalesTransaction) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) CreateMappingTx(ctx context.Context, tx *gorm.DB, m *model.SalesPurchaseMapping) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesTransaction, error) {
	var s model.SalesTransaction
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("Mappings").
		Preload("Mappings.Purchase").
		Preload("Mappings.Purchase.Farmer").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) FindBySalesNumber(ctx context.Context, salesNumber string) (*model.SalesTransaction, error) {
	var s model.SalesTransaction
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("Mappings").
		Preload("Mappings.Purchase").
		First(&s, "sales_number = ?", salesNumber).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.SalesTransaction, error) {
	q := r.db.WithContext(ctx).Model(&model.SalesTransaction{})

	if filter.SeasonID != "" {
		q = q.Where("season_id = ?", filter.SeasonID)
	}
	if filter.ManufacturerID != "" {
		q = q.Where("manufacturer_id = ?", filter.ManufacturerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.DateFrom != "" {
		q = q.Where("sale_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("sale_date < (?::date + 1)", filter.DateTo)
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}

	var rows []model.SalesTransaction
	err := q.Preload("Manufacturer").
		Order("sale_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *saleRepo) NextSalesNumber(ctx context.Context, tx *gorm.DB, prefix string) (string, error) {
	var last string
	err := tx.WithContext(ctx).
		Model(&model.SalesTransaction{}).
		Where("sales_number LIKE ?", prefix+"%").
		Order("sales_number DESC").
		Limit(1).
		Pluck("sales_number", &last).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		if n, perr := strconv.Atoi(strings.TrimPrefix(last, prefix)); perr == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (r *saleRepo) TotalStats(ctx context.Context, seasonID *uuid.UUID) (*SaleStats, error) {
	sql := `
		SELECT
			COUNT(*) AS total_transactions,
			COALESCE(SUM(st.net_weight_kg), 0) AS total_net_weight_kg,
			COALESCE(SUM(st.total_amount), 0) AS total_amount
		FROM sales_transactions st
		JOIN harvesting_seasons hs ON st.season_id = hs.id
		WHERE st.status = 'completed'`
	args := []interface{}{}
	if seasonID != nil {
		sql += ` AND st.season_id = ?`
		args = append(args, *seasonID)
	} else {
		sql += ` AND hs.mode = 'LIVE'`
	}

	var stats SaleStats
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
