package service

import (
	"context"
	"testing"

	"paddyledger/internal/apierror"
	"paddyledger/internal/dto"
	"paddyledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFarmerCreate_DuplicateCodeRejected(t *testing.T) {
	repo := newStubFarmerRepo()
	svc := NewFarmerService(repo)

	_, err := svc.Create(context.Background(), dto.CreateFarmerRequest{
		FarmerCode: "F001", FullName: "Ahmad bin Ismail",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateFarmerRequest{
		FarmerCode: "F001", FullName: "Someone Else",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestFarmerDeactivate_KeepsRecord(t *testing.T) {
	repo := newStubFarmerRepo()
	svc := NewFarmerService(repo)

	farmer, err := svc.Create(context.Background(), dto.CreateFarmerRequest{
		FarmerCode: "F001", FullName: "Ahmad bin Ismail",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), farmer.ID))

	stored, err := svc.GetByID(context.Background(), farmer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PartyStatusInactive, stored.Status)
}

func TestFarmerGetByID_NotFound(t *testing.T) {
	svc := NewFarmerService(newStubFarmerRepo())
	_, err := svc.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestGradeCreate_MoistureRangeValidated(t *testing.T) {
	svc := NewGradeService(newStubGradeRepo())

	_, err := svc.Create(context.Background(), dto.CreateGradeRequest{
		GradeCode:        "X",
		GradeName:        "Broken",
		MinMoisture:      d("15"),
		MaxMoisture:      d("14"),
		MaxForeignMatter: d("2"),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestGradeUpdate_DeactivationRemovesDefault(t *testing.T) {
	repo := newStubGradeRepo()
	svc := NewGradeService(repo)

	g, err := svc.Create(context.Background(), dto.CreateGradeRequest{
		GradeCode:        "A",
		GradeName:        "Grade A",
		MinMoisture:      d("0"),
		MaxMoisture:      d("14"),
		MaxForeignMatter: d("2"),
		DisplayOrder:     1,
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.Update(context.Background(), g.ID, dto.UpdateGradeRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = repo.FindDefault(context.Background())
	require.Error(t, err, "an inactive grade cannot be the default")
}
