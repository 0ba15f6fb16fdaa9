package repository

import (
	"context"
	"time"

	"paddyledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceRepository interface {
	FindPair(ctx context.Context, seasonID, productID uuid.UUID) (*model.SeasonProductPrice, error)
	// UpsertCurrentTx replaces the season/product current price, inserting
	// the row when this pair has never been priced.
	UpsertCurrentTx(ctx context.Context, tx *gorm.DB, p *model.SeasonProductPrice) error
	AppendHistoryTx(ctx context.Context, tx *gorm.DB, h *model.PriceHistory) error
	// LatestAt resolves the price in force at the given instant, used when
	// a purchase is backdated.
	LatestAt(ctx context.Context, seasonID, productID uuid.UUID, at time.Time) (*model.PriceHistory, error)
	ListHistory(ctx context.Context, seasonID, productID uuid.UUID) ([]model.PriceHistory, error)
	ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]model.SeasonProductPrice, error)
	DB() *gorm.DB
}

type priceRepo struct{ db *gorm.DB }

func NewPriceRepository(db *gorm.DB) PriceRepository { return &priceRepo{db: db} }

func (r *priceRepo) DB() *gorm.DB { return r.db }

func (r *priceRepo) FindPair(ctx context.Context, seasonID, productID uuid.UUID) (*model.SeasonProductPrice, error) {
	var p model.SeasonProductPrice
	err := r.db.WithContext(ctx).
		First(&p, "season_id = ? AND product_id = ?", seasonID, productID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *priceRepo) UpsertCurrentTx(ctx context.Context, tx *gorm.DB, p *model.SeasonProductPrice) error {
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "season_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price_per_ton", "updated_at"}),
		}).
		Create(p).Error
}

func (r *priceRepo) AppendHistoryTx(ctx context.Context, tx *gorm.DB, h *model.PriceHistory) error {
	return tx.WithContext(ctx).Create(h).Error
}

func (r *priceRepo) LatestAt(ctx context.Context, seasonID, productID uuid.UUID, at time.Time) (*model.PriceHistory, error) {
	var h model.PriceHistory
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND product_id = ? AND effective_date <= ?", seasonID, productID, at).
		Order("effective_date DESC, created_at DESC").
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *priceRepo) ListHistory(ctx context.Context, seasonID, productID uuid.UUID) ([]model.PriceHistory, error) {
	var rows []model.PriceHistory
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND product_id = ?", seasonID, productID).
		Order("effective_date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *priceRepo) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]model.SeasonProductPrice, error) {
	var rows []model.SeasonProductPrice
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("season_id = ?", seasonID).
		Find(&rows).Error
	return rows, err
}
