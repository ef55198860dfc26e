package customer

import (
	"fmt"
	"strings"

	"origination-engine/internal/pkg/apperrors"
)

// Profile is an immutable lookup record sourced from the catalog. It is never
// mutated after construction; underwriting only reads from it.
type Profile struct {
	CustomerID       string  `json:"customerId"`
	Name             string  `json:"name"`
	City             string  `json:"city"`
	CreditScore      int     `json:"creditScore"`
	PreapprovedLimit float64 `json:"preapprovedLimit"`
	MonthlySalary    float64 `json:"monthlySalary"`
	// SalaryVerified marks the salary figure as employer-verified. Declared
	// salaries still require an income-verification step before they can back
	// an approval above the pre-approved limit.
	SalaryVerified bool `json:"salaryVerified"`
}

const (
	minCreditScore = 300
	maxCreditScore = 900
)

func NewProfile(customerID, name, city string, creditScore int, preapprovedLimit, monthlySalary float64, salaryVerified bool) (*Profile, error) {
	customerID = strings.TrimSpace(customerID)
	name = strings.TrimSpace(name)
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id cannot be empty", apperrors.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: customer name cannot be empty", apperrors.ErrInvalidInput)
	}
	if creditScore < minCreditScore || creditScore > maxCreditScore {
		return nil, fmt.Errorf("%w: credit score %d outside %d-%d", apperrors.ErrInvalidInput, creditScore, minCreditScore, maxCreditScore)
	}
	if preapprovedLimit <= 0 {
		return nil, fmt.Errorf("%w: pre-approved limit must be positive", apperrors.ErrInvalidInput)
	}
	if monthlySalary < 0 {
		return nil, fmt.Errorf("%w: monthly salary cannot be negative", apperrors.ErrInvalidInput)
	}
	if salaryVerified && monthlySalary == 0 {
		return nil, fmt.Errorf("%w: verified salary must be positive", apperrors.ErrInvalidInput)
	}

	return &Profile{
		CustomerID:       customerID,
		Name:             name,
		City:             strings.TrimSpace(city),
		CreditScore:      creditScore,
		PreapprovedLimit: preapprovedLimit,
		MonthlySalary:    monthlySalary,
		SalaryVerified:   salaryVerified,
	}, nil
}

// HasDeclaredSalary reports whether a salary figure is on file at all,
// verified or not.
func (p *Profile) HasDeclaredSalary() bool {
	return p.MonthlySalary > 0
}
