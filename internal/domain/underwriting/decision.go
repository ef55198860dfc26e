package underwriting

import (
	"fmt"
	"time"

	"origination-engine/internal/domain/customer"
	"origination-engine/internal/pkg/apperrors"
)

type Outcome string

const (
	OutcomeApproved            Outcome = "APPROVED"
	OutcomeConditionalApproval Outcome = "CONDITIONAL_APPROVAL"
	OutcomeRejected            Outcome = "REJECTED"
)

const (
	ReasonCreditScoreBelowThreshold  = "credit score below threshold"
	ReasonWithinPreapprovedLimit     = "within pre-approved limit"
	ReasonSalaryBasedApproval        = "salary-based approval"
	ReasonIncomeVerificationRequired = "income verification required"
	ReasonEMIExceedsHalfIncome       = "EMI exceeds 50% of income"
	ReasonAmountExceedsCeiling       = "requested amount exceeds eligibility ceiling"
)

const (
	// Scores below this are an absolute gate; no amount or income overrides it.
	creditScoreThreshold = 700

	// Requests above this multiple of the pre-approved limit are never
	// eligible, not even with verified income.
	eligibilityCeilingMultiplier = 2.0

	// The EMI may consume at most this share of monthly income. The boundary
	// is inclusive: an EMI of exactly half the income passes.
	emiToIncomeRatio = 0.5
)

// Decision is the engine's output. EMI is computed before the outcome is
// produced, even for rejections, so callers can always explain the numbers.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason"`
	EMI     Money   `json:"emi"`
}

// IncomeVerification records the single resolution of a conditional approval.
type IncomeVerification struct {
	VerifiedSalary Money     `json:"verifiedSalary"`
	Passed         bool      `json:"passed"`
	ResolvedAt     time.Time `json:"resolvedAt"`
}

// Evaluate runs the underwriting cascade in strict order; the first matching
// rule wins. The ordering is part of the engine's contract: the credit gate
// precedes every amount rule, and the pre-approved limit precedes the
// salary rules.
func Evaluate(profile *customer.Profile, request *LoanRequest) (*Decision, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: customer profile is required", apperrors.ErrInvalidInput)
	}
	if request == nil {
		return nil, fmt.Errorf("%w: loan request is required", apperrors.ErrInvalidInput)
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	emi, err := ComputeEMI(request.Principal, request.AnnualRatePercent, request.TenureMonths)
	if err != nil {
		return nil, err
	}

	if profile.CreditScore < creditScoreThreshold {
		return &Decision{Outcome: OutcomeRejected, Reason: ReasonCreditScoreBelowThreshold, EMI: emi}, nil
	}

	if request.Principal <= profile.PreapprovedLimit {
		return &Decision{Outcome: OutcomeApproved, Reason: ReasonWithinPreapprovedLimit, EMI: emi}, nil
	}

	if request.Principal <= eligibilityCeilingMultiplier*profile.PreapprovedLimit {
		if profile.SalaryVerified && emi <= emiToIncomeRatio*profile.MonthlySalary {
			return &Decision{Outcome: OutcomeApproved, Reason: ReasonSalaryBasedApproval, EMI: emi}, nil
		}
		return &Decision{Outcome: OutcomeConditionalApproval, Reason: ReasonIncomeVerificationRequired, EMI: emi}, nil
	}

	return &Decision{Outcome: OutcomeRejected, Reason: ReasonAmountExceedsCeiling, EMI: emi}, nil
}

// ResolveIncomeVerification re-evaluates the 50%-of-income rule against a now
// known salary. It only applies to conditional approvals; the EMI is the one
// fixed at the sales step and is not recomputed.
func ResolveIncomeVerification(decision *Decision, verifiedSalary Money) (*Decision, *IncomeVerification, error) {
	if decision == nil {
		return nil, nil, fmt.Errorf("%w: decision is required", apperrors.ErrInvalidInput)
	}
	if decision.Outcome != OutcomeConditionalApproval {
		return nil, nil, fmt.Errorf("%w: decision outcome %s does not await income verification", apperrors.ErrIllegalTransition, decision.Outcome)
	}
	if verifiedSalary <= 0 {
		return nil, nil, fmt.Errorf("%w: verified salary must be positive, got %.2f", apperrors.ErrInvalidInput, verifiedSalary)
	}

	passed := decision.EMI <= emiToIncomeRatio*verifiedSalary
	verification := &IncomeVerification{
		VerifiedSalary: verifiedSalary,
		Passed:         passed,
		ResolvedAt:     time.Now(),
	}

	if passed {
		return &Decision{Outcome: OutcomeApproved, Reason: ReasonSalaryBasedApproval, EMI: decision.EMI}, verification, nil
	}
	return &Decision{Outcome: OutcomeRejected, Reason: ReasonEMIExceedsHalfIncome, EMI: decision.EMI}, verification, nil
}
