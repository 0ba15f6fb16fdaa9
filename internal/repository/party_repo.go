package repository

import (
	"context"

	"paddyledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FarmerRepository interface {
	Create(ctx context.Context, f *model.Farmer) error
	Save(ctx context.Context, f *model.Farmer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error)
	FindByCode(ctx context.Context, code string) (*model.Farmer, error)
	// Search matches code, name or national ID, case-insensitively.
	Search(ctx context.Context, term string, limit int) ([]model.Farmer, error)
	List(ctx context.Context, activeOnly bool) ([]model.Farmer, error)
	DB() *gorm.DB
}

type farmerRepo struct{ db *gorm.DB }

func NewFarmerRepository(db *gorm.DB) FarmerRepository { return &farmerRepo{db: db} }

func (r *farmerRepo) DB() *gorm.DB { return r.db }

func (r *farmerRepo) Create(ctx context.Context, f *model.Farmer) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *farmerRepo) Save(ctx context.Context, f *model.Farmer) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *farmerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error) {
	var f model.Farmer
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *farmerRepo) FindByCode(ctx context.Context, code string) (*model.Farmer, error) {
	var f model.Farmer
	if err := r.db.WithContext(ctx).First(&f, "farmer_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *farmerRepo) Search(ctx context.Context, term string, limit int) ([]model.Farmer, error) {
	if limit < 1 {
		limit = 20
	}
	like := "%" + term + "%"
	var rows []model.Farmer
	err := r.db.WithContext(ctx).
		Where("farmer_code ILIKE ? OR full_name ILIKE ? OR national_id ILIKE ?", like, like, like).
		Order("full_name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *farmerRepo) List(ctx context.Context, activeOnly bool) ([]model.Farmer, error) {
	q := r.db.WithContext(ctx).Model(&model.Farmer{})
	if activeOnly {
		q = q.Where("status = ?", model.PartyStatusActive)
	}
	var rows []model.Farmer
	err := q.Order("full_name ASC").Find(&rows).Error
	return rows, err
}

type ManufacturerRepository interface {
	Create(ctx context.Context, m *model.Manufacturer) error
	Save(ctx context.Context, m *model.Manufacturer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Manufacturer, error)
	// Search matches code or company name, case-insensitively.
	Search(ctx context.Context, term string, limit int) ([]model.Manufacturer, error)
	List(ctx context.Context, activeOnly bool) ([]model.Manufacturer, error)
	DB() *gorm.DB
}

type manufacturerRepo struct{ db *gorm.DB }

func NewManufacturerRepository(db *gorm.DB) ManufacturerRepository {
	return &manufacturerRepo{db: db}
}

func (r *manufacturerRepo) DB() *gorm.DB { return r.db }

func (r *manufacturerRepo) Create(ctx context.Context, m *model.Manufacturer) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *manufacturerRepo) Save(ctx context.Context, m *model.Manufacturer) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *manufacturerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Manufacturer, error) {
	var m model.Manufacturer
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *manufacturerRepo) Search(ctx context.Context, term string, limit int) ([]model.Manufacturer, error) {
	if limit < 1 {
		limit = 20
	}
	like := "%" + term + "%"
	var rows []model.Manufacturer
	err := r.db.WithContext(ctx).
		Where("manufacturer_code ILIKE ? OR company_name ILIKE ?", like, like).
		Order("company_name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *manufacturerRepo) List(ctx context.Context, activeOnly bool) ([]model.Manufacturer, error) {
	q := r.db.WithContext(ctx).Model(&model.Manufacturer{})
	if activeOnly {
		q = q.Where("status = ?", model.PartyStatusActive)
	}
	var rows []model.Manufacturer
	err := q.Order("company_name ASC").Find(&rows).Error
	return rows, err
}
