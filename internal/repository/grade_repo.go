package repository

import (
	"context"

	"paddyledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GradeRepository interface {
	Create(ctx context.Context, g *model.Grade) error
	Save(ctx context.Context, g *model.Grade) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Grade, error)
	// FindDefault returns the top-ranked active grade, assigned when a
	// purchase arrives without an explicit grade.
	FindDefault(ctx context.Context) (*model.Grade, error)
	List(ctx context.Context, activeOnly bool) ([]model.Grade, error)
	DB() *gorm.DB
}

type gradeRepo struct{ db *gorm.DB }

func NewGradeRepository(db *gorm.DB) GradeRepository { return &gradeRepo{db: db} }

func (r *gradeRepo) DB() *gorm.DB { return r.db }

func (r *gradeRepo) Create(ctx context.Context, g *model.Grade) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gradeRepo) Save(ctx context.Context, g *model.Grade) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *gradeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Grade, error) {
	var g model.Grade
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gradeRepo) FindDefault(ctx context.Context) (*model.Grade, error) {
	var g model.Grade
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gradeRepo) List(ctx context.Context, activeOnly bool) ([]model.Grade, error) {
	q := r.db.WithContext(ctx).Model(&model.Grade{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []model.Grade
	err := q.Order("display_order ASC").Find(&rows).Error
	return rows, err
}
