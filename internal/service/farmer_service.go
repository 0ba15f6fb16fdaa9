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

type FarmerService interface {
	Create(ctx context.Context, req dto.CreateFarmerRequest) (*model.Farmer, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateFarmerRequest) (*model.Farmer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error)
	Search(ctx context.Context, term string, limit int) ([]model.Farmer, error)
	List(ctx context.Context, activeOnly bool) ([]model.Farmer, error)
	// Deactivate soft-deletes: the farmer keeps their transaction history
	// but can no longer be used on new purchases.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type farmerService struct {
	repo repository.FarmerRepository
}

func NewFarmerService(repo repository.FarmerRepository) FarmerService {
	return &farmerService{repo: repo}
}

func (s *farmerService) Create(ctx context.Context, req dto.CreateFarmerRequest) (*model.Farmer, error) {
	if _, err := s.repo.FindByCode(ctx, req.FarmerCode); err == nil {
		return nil, apierror.Conflict("farmer code %s already exists", req.FarmerCode)
	}
	farmer := model.Farmer{
		FarmerCode: req.FarmerCode,
		FullName:   req.FullName,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Address:    req.Address,
		BankName:   req.BankName,
		BankAccNo:  req.BankAccNo,
		Status:     model.PartyStatusActive,
	}
	if err := s.repo.Create(ctx, &farmer); err != nil {
		return nil, apierror.Storage(err)
	}
	return &farmer, nil
}

func (s *farmerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateFarmerRequest) (*model.Farmer, error) {
	farmer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		farmer.FullName = *req.FullName
	}
	if req.NationalID != nil {
		farmer.NationalID = req.NationalID
	}
	if req.Phone != nil {
		farmer.Phone = req.Phone
	}
	if req.Address != nil {
		farmer.Address = req.Address
	}
	if req.BankName != nil {
		farmer.BankName = req.BankName
	}
	if req.BankAccNo != nil {
		farmer.BankAccNo = req.BankAccNo
	}
	if req.Status != nil {
		farmer.Status = *req.Status
	}
	if err := s.repo.Save(ctx, farmer); err != nil {
		return nil, apierror.Storage(err)
	}
	return farmer, nil
}

func (s *farmerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error) {
	farmer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("farmer %s not found", id)
		}
		return nil, apierror.Storage(err)
	}
	return farmer, nil
}

func (s *farmerService) Search(ctx context.Context, term string, limit int) ([]model.Farmer, error) {
	rows, err := s.repo.Search(ctx, term, limit)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return rows, nil
}

func (s *farmerService) List(ctx context.Context, activeOnly bool) ([]model.Farmer, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, apierror.Storage(err)
	}
	return rows, nil
}

func (s *farmerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	farmer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	farmer.Status = model.PartyStatusInactive
	if err := s.repo.Save(ctx, farmer); err != nil {
		return apierror.Storage(err)
	}
	return nil
}
