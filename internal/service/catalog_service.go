package service

import (
	"context"
	"errors"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/model"
	"paddyledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Products ─────────────────────────────────────────────────────────────────

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, activeOnly bool) ([]model.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	if _, err := s.repo.FindByCode(ctx, req.ProductCode); err == nil {
		return nil, apierror.Conflict("product code %s already exists", req.ProductCode)
	}
	p := model.Product{
		ProductCode: req.ProductCode,
		ProductName: req.ProductName,
		ProductType: req.ProductType,
		Variety:     req.Variety,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, apierror.Storage(err)
	}
	return &p, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*model.Product, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ProductName != nil {
		p.ProductName = *req.ProductName
	}
	if req.ProductType != nil {
		p.ProductType = *req.ProductType
	}
	if req.Variety != nil {
		p.Variety = *req.Variety
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, apierror.Storage(err)
	}
	return p, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product %s not found", id)
		}
		return nil, apierror.Storage(err)
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, activeOnly bool) ([]model.Product, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return rows, nil
}

// ── Grades ───────────────────────────────────────────────────────────────────

type GradeService interface {
	Create(ctx context.Context, req dto.CreateGradeRequest) (*model.Grade, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateGradeRequest) (*model.Grade, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Grade, error)
	List(ctx context.Context, activeOnly bool) ([]model.Grade, error)
}

type gradeService struct {
	repo repository.GradeRepository
}

func NewGradeService(repo repository.GradeRepository) GradeService {
	return &gradeService{repo: repo}
}

func (s *gradeService) Create(ctx context.Context, req dto.CreateGradeRequest) (*model.Grade, error) {
	if req.MinMoisture.GreaterThan(req.MaxMoisture) {
		return nil, apierror.Validation("min moisture %s exceeds max moisture %s", req.MinMoisture, req.MaxMoisture)
	}
	g := model.Grade{
		GradeCode:        req.GradeCode,
		GradeName:        req.GradeName,
		Description:      req.Description,
		MinMoisture:      req.MinMoisture,
		MaxMoisture:      req.MaxMoisture,
		MaxForeignMatter: req.MaxForeignMatter,
		DisplayOrder:     req.DisplayOrder,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, &g); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("grade code %s already exists", req.GradeCode)
		}
		return nil, apierror.Storage(err)
	}
	return &g, nil
}

func (s *gradeService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateGradeRequest) (*model.Grade, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.GradeName != nil {
		g.GradeName = *req.GradeName
	}
	if req.Description != nil {
		g.Description = req.Description
	}
	if req.MinMoisture != nil {
		g.MinMoisture = *req.MinMoisture
	}
	if req.MaxMoisture != nil {
		g.MaxMoisture = *req.MaxMoisture
	}
	if req.MaxForeignMatter != nil {
		g.MaxForeignMatter = *req.MaxForeignMatter
	}
	if req.DisplayOrder != nil {
		g.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
	if g.MinMoisture.GreaterThan(g.MaxMoisture) {
		return nil, apierror.Validation("min moisture %s exceeds max moisture %s", g.MinMoisture, g.MaxMoisture)
	}
	if err := s.repo.Save(ctx, g); err != nil {
		return nil, apierror.Storage(err)
	}
	return g, nil
}

func (s *gradeService) GetByID(ctx context.Context, id uuid.UUID) (*model.Grade, error) {
	g, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("grade %s not found", id)
		}
		return nil, apierror.Storage(err)
	}
	return g, nil
}

func (s *gradeService) List(ctx context.Context, activeOnly bool) ([]model.Grade, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return rows, nil
}
