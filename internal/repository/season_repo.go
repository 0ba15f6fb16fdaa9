package repository

import (
	"context"

	"paddyledger/internal/dto"
	"paddyledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SeasonRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Season) error
	Save(ctx context.Context, s *model.Season) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Season, error)
	FindByCode(ctx context.Context, code string) (*model.Season, error)
	FindActive(ctx context.Context) (*model.Season, error)
	List(ctx context.Context, filter dto.SeasonFilter) ([]model.Season, error)
	// CloseAllActiveTx demotes every active season except the one being
	// activated. At most one season is active at a time.
	CloseAllActiveTx(ctx context.Context, tx *gorm.DB, exceptID uuid.UUID) error
	DB() *gorm.DB
}

type seasonRepo struct{ db *gorm.DB }

func NewSeasonRepository(db *gorm.DB) SeasonRepository { return &seasonRepo{db: db} }

func (r *seasonRepo) DB() *gorm.DB { return r.db }

func (r *seasonRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Season) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *seasonRepo) Save(ctx context.Context, s *model.Season) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *seasonRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Season, error) {
	var s model.Season
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *seasonRepo) FindByCode(ctx context.Context, code string) (*model.Season, error) {
	var s model.Season
	if err := r.db.WithContext(ctx).First(&s, "season_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *seasonRepo) FindActive(ctx context.Context) (*model.Season, error) {
	var s model.Season
	err := r.db.WithContext(ctx).
		Where("status = ?", model.SeasonStatusActive).
		Order("start_date DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *seasonRepo) List(ctx context.Context, filter dto.SeasonFilter) ([]model.Season, error) {
	q := r.db.WithContext(ctx).Model(&model.Season{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Mode != "" {
		q = q.Where("mode = ?", filter.Mode)
	}
	if filter.Year > 0 {
		q = q.Where("year = ?", filter.Year)
	}
	var rows []model.Season
	err := q.Order("start_date DESC").Find(&rows).Error
	return rows, err
}

func (r *seasonRepo) CloseAllActiveTx(ctx context.Context, tx *gorm.DB, exceptID uuid.UUID) error {
	return tx.WithContext(ctx).
		Model(&model.Season{}).
		Where("status = ? AND id <> ?", model.SeasonStatusActive, exceptID).
		Update("status", model.SeasonStatusClosed).Error
}
