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

type ManufacturerService interface {
	Create(ctx context.Context, req dto.CreateManufacturerRequest) (*model.Manufacturer, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateManufacturerRequest) (*model.Manufacturer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Manufacturer, error)
	Search(ctx context.Context, term string, limit int) ([]model.Manufacturer, error)
	List(ctx context.Context, activeOnly bool) ([]model.Manufacturer, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type manufacturerService struct {
	repo repository.ManufacturerRepository
}

func NewManufacturerService(repo repository.ManufacturerRepository) ManufacturerService {
	return &manufacturerService{repo: repo}
}

func (s *manufacturerService) Create(ctx context.Context, req dto.CreateManufacturerRequest) (*model.Manufacturer, error) {
	m := model.Manufacturer{
		ManufacturerCode: req.ManufacturerCode,
		CompanyName:      req.CompanyName,
		ContactPerson:    req.ContactPerson,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		Status:           model.PartyStatusActive,
	}
	if err := s.repo.Create(ctx, &m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("manufacturer code %s already exists", req.ManufacturerCode)
		}
		return nil, apierror.Storage(err)
	}
	return &m, nil
}

func (s *manufacturerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateManufacturerRequest) (*model.Manufacturer, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CompanyName != nil {
		m.CompanyName = *req.CompanyName
	}
	if req.ContactPerson != nil {
		m.ContactPerson = req.ContactPerson
	}
	if req.Phone != nil {
		m.Phone = req.Phone
	}
	if req.Email != nil {
		m.Email = req.Email
	}
	if req.Address != nil {
		m.Address = req.Address
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, apierror.Storage(err)
	}
	return m, nil
}

func (s *manufacturerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Manufacturer, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("manufacturer %s not found", id)
		}
		return nil, apierror.Storage(err)
	}
	return m, nil
}

func (s *manufacturerService) Search(ctx context.Context, term string, limit int) ([]model.Manufacturer, error) {
	rows, err := s.repo.Search(ctx, term, limit)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return rows, nil
}

func (s *manufacturerService) List(ctx context.Context, activeOnly bool) ([]model.Manufacturer, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return rows, nil
}

func (s *manufacturerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	m.Status = model.PartyStatusInactive
	if err := s.repo.Save(ctx, m); err != nil {
		return apierror.Storage(err)
	}
	return nil
}
