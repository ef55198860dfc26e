package underwriting

import (
	"fmt"
	"math"

	"origination-engine/internal/pkg/apperrors"
)

type Money = float64

// ComputeEMI returns the equated monthly installment for the given principal,
// annual percentage rate and tenure using the standard amortization formula.
//
// The zero-rate case must stay an explicit branch: with r = 0 the denominator
// (1+r)^n - 1 collapses to zero and the formula divides by zero.
func ComputeEMI(principal Money, annualRatePercent float64, tenureMonths int) (Money, error) {
	if principal <= 0 {
		return 0, fmt.Errorf("%w: principal must be positive, got %.2f", apperrors.ErrInvalidInput, principal)
	}
	if tenureMonths <= 0 {
		return 0, fmt.Errorf("%w: tenure months must be positive, got %d", apperrors.ErrInvalidInput, tenureMonths)
	}
	if annualRatePercent < 0 {
		return 0, fmt.Errorf("%w: annual rate cannot be negative, got %.2f", apperrors.ErrInvalidInput, annualRatePercent)
	}

	monthlyRate := annualRatePercent / (12 * 100)
	if monthlyRate == 0 {
		return principal / float64(tenureMonths), nil
	}

	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	return principal * monthlyRate * factor / (factor - 1), nil
}

// RoundTo is the display rounding policy (half away from zero). ComputeEMI
// itself never rounds; callers decide.
func RoundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}
