package service

import (
	"paddyledger/internal/apierror"
	"paddyledger/internal/model"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// DeductionAllocation is one deduction's share of the removed weight.
type DeductionAllocation struct {
	Name     string          `json:"name"`
	Percent  decimal.Decimal `json:"percentage"`
	WeightKg decimal.Decimal `json:"weight_kg"`
}

// DeductionResult carries every figure derived from applying a deduction list
// to a net weight.
type DeductionResult struct {
	TotalRate         decimal.Decimal
	EffectiveWeightKg decimal.Decimal
	DeductedWeightKg  decimal.Decimal
	Allocations       []DeductionAllocation
}

// CalculateDeduction applies an ordered list of percentage deductions to a
// net weight. Pure computation, deterministic for identical inputs: the
// engine recomputes effective weight at creation and split time and both
// sites must agree.
//
// Effective weight is stored in whole kilograms, rounded half-up. An empty
// deduction list leaves the net weight untouched, exactly.
func CalculateDeduction(netWeightKg decimal.Decimal, items []model.DeductionItem) (*DeductionResult, error) {
	if !netWeightKg.IsPositive() {
		return nil, apierror.Validation("net weight must be positive, got %s", netWeightKg)
	}

	if len(items) == 0 {
		return &DeductionResult{
			TotalRate:         decimal.Zero,
			EffectiveWeightKg: netWeightKg,
			DeductedWeightKg:  decimal.Zero,
		}, nil
	}

	totalRate := decimal.Zero
	for _, item := range items {
		if item.Percent.IsNegative() || item.Percent.GreaterThan(oneHundred) {
			return nil, apierror.Validation("deduction %q: percentage %s out of range [0,100]", item.Name, item.Percent)
		}
		totalRate = totalRate.Add(item.Percent)
	}
	if totalRate.GreaterThan(oneHundred) {
		return nil, apierror.Validation("total deduction rate %s%% exceeds 100%%", totalRate)
	}

	factor := decimal.NewFromInt(1).Sub(totalRate.Div(oneHundred))
	effective := netWeightKg.Mul(factor).Round(0)
	deducted := netWeightKg.Sub(effective)

	allocations := make([]DeductionAllocation, 0, len(items))
	for _, item := range items {
		allocations = append(allocations, DeductionAllocation{
			Name:     item.Name,
			Percent:  item.Percent,
			WeightKg: netWeightKg.Mul(item.Percent).Div(oneHundred).Round(2),
		})
	}

	return &DeductionResult{
		TotalRate:         totalRate,
		EffectiveWeightKg: effective,
		DeductedWeightKg:  deducted,
		Allocations:       allocations,
	}, nil
}

// effectiveAtRate reapplies a stored total deduction rate to a weight, using
// the same rounding as CalculateDeduction. Split children derive their
// effective weight from the parent's rate through this.
func effectiveAtRate(netWeightKg, totalRate decimal.Decimal) decimal.Decimal {
	if totalRate.IsZero() {
		return netWeightKg
	}
	factor := decimal.NewFromInt(1).Sub(totalRate.Div(oneHundred))
	return netWeightKg.Mul(factor).Round(0)
}
