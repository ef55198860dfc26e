package underwriting

import (
	"fmt"

	"origination-engine/internal/pkg/apperrors"
)

// AllowedTenureMonths is the enumerated set of tenures the product offers.
var AllowedTenureMonths = []int{12, 24, 36, 48, 60}

// LoanRequest captures the terms submitted at the sales step. It is immutable
// once the decision engine has consumed it; changing terms restarts the
// journey. The rate is fixed here and never altered during income
// verification.
type LoanRequest struct {
	Principal         Money   `json:"principal"`
	TenureMonths      int     `json:"tenureMonths"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
}

func NewLoanRequest(principal Money, tenureMonths int, annualRatePercent float64) (*LoanRequest, error) {
	req := &LoanRequest{
		Principal:         principal,
		TenureMonths:      tenureMonths,
		AnnualRatePercent: annualRatePercent,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *LoanRequest) Validate() error {
	if r.Principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %.2f", apperrors.ErrInvalidInput, r.Principal)
	}
	if !tenureAllowed(r.TenureMonths) {
		return fmt.Errorf("%w: tenure %d months not offered, allowed: %v", apperrors.ErrInvalidInput, r.TenureMonths, AllowedTenureMonths)
	}
	if r.AnnualRatePercent < 0 {
		return fmt.Errorf("%w: annual rate cannot be negative, got %.2f", apperrors.ErrInvalidInput, r.AnnualRatePercent)
	}
	return nil
}

func tenureAllowed(months int) bool {
	for _, t := range AllowedTenureMonths {
		if t == months {
			return true
		}
	}
	return false
}
