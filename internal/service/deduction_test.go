package service

import (
	"testing"

	"paddyledger/internal/apierror"
	"paddyledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDeduction_SingleItem(t *testing.T) {
	res, err := CalculateDeduction(d("800"), model.DeductionItems{
		{Name: "Moisture", Percent: d("8")},
	})
	require.NoError(t, err)

	assert.True(t, res.TotalRate.Equal(d("8")), "rate = %s", res.TotalRate)
	assert.True(t, res.EffectiveWeightKg.Equal(d("736")), "effective = %s", res.EffectiveWeightKg)
	assert.True(t, res.DeductedWeightKg.Equal(d("64")), "deducted = %s", res.DeductedWeightKg)
}

func TestCalculateDeduction_MultipleItemsSumRates(t *testing.T) {
	res, err := CalculateDeduction(d("1000"), model.DeductionItems{
		{Name: "Moisture", Percent: d("5")},
		{Name: "Foreign Matter", Percent: d("3")},
		{Name: "Immature Grains", Percent: d("1.5")},
	})
	require.NoError(t, err)

	assert.True(t, res.TotalRate.Equal(d("9.5")))
	assert.True(t, res.EffectiveWeightKg.Equal(d("905")))
	require.Len(t, res.Allocations, 3)
	assert.Equal(t, "Moisture", res.Allocations[0].Name)
	assert.True(t, res.Allocations[0].WeightKg.Equal(d("50")))
	assert.True(t, res.Allocations[2].WeightKg.Equal(d("15")))
}

func TestCalculateDeduction_EmptyListIsExact(t *testing.T) {
	net := d("812.55")
	res, err := CalculateDeduction(net, nil)
	require.NoError(t, err)

	assert.True(t, res.EffectiveWeightKg.Equal(net), "effective must equal net exactly")
	assert.True(t, res.DeductedWeightKg.IsZero())
	assert.True(t, res.TotalRate.IsZero())
}

func TestCalculateDeduction_RoundsToWholeKilograms(t *testing.T) {
	// 333 * 0.95 = 316.35 → 316
	res, err := CalculateDeduction(d("333"), model.DeductionItems{
		{Name: "Moisture", Percent: d("5")},
	})
	require.NoError(t, err)
	assert.True(t, res.EffectiveWeightKg.Equal(d("316")), "effective = %s", res.EffectiveWeightKg)

	// 350 * 0.95 = 332.5 → rounds half up to 333
	res, err = CalculateDeduction(d("350"), model.DeductionItems{
		{Name: "Moisture", Percent: d("5")},
	})
	require.NoError(t, err)
	assert.True(t, res.EffectiveWeightKg.Equal(d("333")), "effective = %s", res.EffectiveWeightKg)
}

func TestCalculateDeduction_RejectsOutOfRangePercent(t *testing.T) {
	_, err := CalculateDeduction(d("500"), model.DeductionItems{
		{Name: "Moisture", Percent: d("-1")},
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))

	_, err = CalculateDeduction(d("500"), model.DeductionItems{
		{Name: "Moisture", Percent: d("101")},
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCalculateDeduction_RejectsTotalOverHundred(t *testing.T) {
	_, err := CalculateDeduction(d("500"), model.DeductionItems{
		{Name: "Moisture", Percent: d("60")},
		{Name: "Foreign Matter", Percent: d("50")},
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestCalculateDeduction_RejectsNonPositiveNet(t *testing.T) {
	_, err := CalculateDeduction(d("0"), nil)
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestEffectiveAtRate_AgreesWithCalculate(t *testing.T) {
	items := model.DeductionItems{{Name: "Moisture", Percent: d("7.5")}}
	res, err := CalculateDeduction(d("642"), items)
	require.NoError(t, err)

	assert.True(t, effectiveAtRate(d("642"), res.TotalRate).Equal(res.EffectiveWeightKg))
	assert.True(t, effectiveAtRate(d("642"), d("0")).Equal(d("642")))
}
