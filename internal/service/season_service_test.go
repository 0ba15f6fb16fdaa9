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

func newSeasonService(t *testing.T) (SeasonService, *stubSeasonRepo) {
	t.Helper()
	repo := newStubSeasonRepo()
	return NewSeasonService(repo), repo
}

func createSeasonRequest(code string) dto.CreateSeasonRequest {
	return dto.CreateSeasonRequest{
		SeasonCode:         code,
		SeasonName:         "Main Season " + code,
		Year:               2025,
		SeasonNumber:       1,
		OpeningPricePerTon: d("1800"),
	}
}

func TestSeasonCreate(t *testing.T) {
	svc, repo := newSeasonService(t)

	resp, err := svc.Create(context.Background(), createSeasonRequest("2025-S1"))
	require.NoError(t, err)
	assert.Equal(t, model.SeasonStatusPlanned, resp.Status)
	assert.Equal(t, model.SeasonModeLive, resp.Mode)
	assert.True(t, resp.CurrentPricePerTon.Equal(d("1800")), "current price opens at the opening price")

	stored, err := repo.FindByCode(context.Background(), "2025-S1")
	require.NoError(t, err)
	assert.Equal(t, resp.SeasonID, stored.ID.String())
}

func TestSeasonCreate_DuplicateCodeRejected(t *testing.T) {
	svc, _ := newSeasonService(t)
	_, err := svc.Create(context.Background(), createSeasonRequest("2025-S1"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createSeasonRequest("2025-S1"))
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestSeasonCreate_ActivateClosesOthers(t *testing.T) {
	svc, repo := newSeasonService(t)
	old := activeSeason("2024-S2")
	require.NoError(t, repo.Create(context.Background(), nil, old))

	req := createSeasonRequest("2025-S1")
	req.Activate = true
	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.SeasonStatusActive, resp.Status)

	assert.Equal(t, model.SeasonStatusClosed, old.Status)
	require.NotNil(t, old.ClosedAt)
}

func TestSeasonActivate_SingleActiveInvariant(t *testing.T) {
	svc, repo := newSeasonService(t)
	old := activeSeason("2024-S2")
	require.NoError(t, repo.Create(context.Background(), nil, old))

	created, err := svc.Create(context.Background(), createSeasonRequest("2025-S1"))
	require.NoError(t, err)
	id := uuid.MustParse(created.SeasonID)

	resp, err := svc.Activate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.SeasonStatusActive, resp.Status)
	assert.Equal(t, model.SeasonStatusClosed, old.Status)

	active, err := svc.GetActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created.SeasonID, active.SeasonID)
}

func TestSeasonActivate_AlreadyActiveIsIdempotent(t *testing.T) {
	svc, repo := newSeasonService(t)
	season := activeSeason("2025-S1")
	require.NoError(t, repo.Create(context.Background(), nil, season))

	resp, err := svc.Activate(context.Background(), season.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeasonStatusActive, resp.Status)
}

func TestSeasonActivate_ReopensClosedSeason(t *testing.T) {
	svc, repo := newSeasonService(t)
	season := activeSeason("2025-S1")
	require.NoError(t, repo.Create(context.Background(), nil, season))

	_, err := svc.Close(context.Background(), season.ID)
	require.NoError(t, err)
	require.NotNil(t, season.ClosedAt)

	resp, err := svc.Activate(context.Background(), season.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeasonStatusActive, resp.Status)
	assert.Nil(t, season.ClosedAt)
}

func TestSeasonClose(t *testing.T) {
	svc, repo := newSeasonService(t)
	season := activeSeason("2025-S1")
	require.NoError(t, repo.Create(context.Background(), nil, season))

	resp, err := svc.Close(context.Background(), season.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeasonStatusClosed, resp.Status)
	assert.NotNil(t, season.ClosedAt)

	// Closing again is a no-op.
	resp, err = svc.Close(context.Background(), season.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SeasonStatusClosed, resp.Status)
}

func TestSeasonClose_CancelledRejected(t *testing.T) {
	svc, repo := newSeasonService(t)
	season := activeSeason("2025-S1")
	season.Status = model.SeasonStatusCancelled
	require.NoError(t, repo.Create(context.Background(), nil, season))

	_, err := svc.Close(context.Background(), season.ID)
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestSeasonUpdate_ClosedRejected(t *testing.T) {
	svc, repo := newSeasonService(t)
	season := activeSeason("2025-S1")
	season.Status = model.SeasonStatusClosed
	require.NoError(t, repo.Create(context.Background(), nil, season))

	name := "renamed"
	_, err := svc.Update(context.Background(), season.ID, dto.UpdateSeasonRequest{SeasonName: &name})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
}

func TestSeasonUpdateDeductionConfig(t *testing.T) {
	svc, repo := newSeasonService(t)
	season := activeSeason("2025-S1")
	require.NoError(t, repo.Create(context.Background(), nil, season))

	resp, err := svc.UpdateDeductionConfig(context.Background(), season.ID, dto.UpdateDeductionConfigRequest{
		Presets: []dto.DeductionPresetRequest{
			{
				Name: "Wet season standard",
				Items: []dto.DeductionItemRequest{
					{Name: "Moisture", Percent: d("5")},
					{Name: "Foreign Matter", Percent: d("3")},
				},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.DeductionConfig.Presets, 1)
	assert.Equal(t, "Wet season standard", resp.DeductionConfig.Presets[0].Name)

	stored := season.DeductionConfig.Preset("Wet season standard")
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 2)
}

func TestSeasonUpdateDeductionConfig_TotalOverHundredRejected(t *testing.T) {
	svc, repo := newSeasonService(t)
	season := activeSeason("2025-S1")
	require.NoError(t, repo.Create(context.Background(), nil, season))

	_, err := svc.UpdateDeductionConfig(context.Background(), season.ID, dto.UpdateDeductionConfigRequest{
		Presets: []dto.DeductionPresetRequest{
			{
				Name: "Broken",
				Items: []dto.DeductionItemRequest{
					{Name: "Moisture", Percent: d("60")},
					{Name: "Foreign Matter", Percent: d("50")},
				},
			},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSeasonGetActive_NoneIsNotFound(t *testing.T) {
	svc, _ := newSeasonService(t)
	_, err := svc.GetActive(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
