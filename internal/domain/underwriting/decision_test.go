package underwriting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"origination-engine/internal/domain/customer"
	"origination-engine/internal/pkg/apperrors"
)

func makeProfile(t *testing.T, creditScore int, limit, salary float64, verified bool) *customer.Profile {
	t.Helper()
	p, err := customer.NewProfile("C900", "Test Applicant", "Pune", creditScore, limit, salary, verified)
	assert.NoError(t, err)
	return p
}

func makeRequest(t *testing.T, principal Money, tenure int, rate float64) *LoanRequest {
	t.Helper()
	req, err := NewLoanRequest(principal, tenure, rate)
	assert.NoError(t, err)
	return req
}

func TestEvaluate(t *testing.T) {
	t.Run("credit score below 700 rejects regardless of amount", func(t *testing.T) {
		profile := makeProfile(t, 699, 500000, 120000, true)
		request := makeRequest(t, 10000, 12, 10)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeRejected, decision.Outcome)
		assert.Equal(t, ReasonCreditScoreBelowThreshold, decision.Reason)
		assert.Greater(t, decision.EMI, 0.0)
	})

	t.Run("credit score of exactly 700 passes the gate", func(t *testing.T) {
		profile := makeProfile(t, 700, 300000, 0, false)
		request := makeRequest(t, 100000, 12, 10)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeApproved, decision.Outcome)
	})

	t.Run("principal within pre-approved limit approves instantly", func(t *testing.T) {
		profile := makeProfile(t, 760, 300000, 65000, false)
		request := makeRequest(t, 250000, 24, 14)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeApproved, decision.Outcome)
		assert.Equal(t, ReasonWithinPreapprovedLimit, decision.Reason)
		assert.InDelta(t, 12003.22, RoundTo(decision.EMI, 2), 0.01)
	})

	t.Run("principal equal to pre-approved limit still approves", func(t *testing.T) {
		profile := makeProfile(t, 760, 300000, 65000, false)
		request := makeRequest(t, 300000, 24, 14)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeApproved, decision.Outcome)
		assert.Equal(t, ReasonWithinPreapprovedLimit, decision.Reason)
	})

	t.Run("above limit with verified salary and affordable EMI approves", func(t *testing.T) {
		profile := makeProfile(t, 780, 200000, 60000, true)
		request := makeRequest(t, 300000, 36, 12)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeApproved, decision.Outcome)
		assert.Equal(t, ReasonSalaryBasedApproval, decision.Reason)
	})

	t.Run("EMI of exactly half the verified salary approves", func(t *testing.T) {
		// Zero rate makes the EMI exact: 240000/24 = 10000, salary 20000.
		profile := makeProfile(t, 780, 200000, 20000, true)
		request := makeRequest(t, 240000, 24, 0)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, 10000.0, decision.EMI)
		assert.Equal(t, OutcomeApproved, decision.Outcome)
		assert.Equal(t, ReasonSalaryBasedApproval, decision.Reason)
	})

	t.Run("above limit with unverified salary requires income verification", func(t *testing.T) {
		profile := makeProfile(t, 750, 200000, 50000, false)
		request := makeRequest(t, 350000, 36, 12)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeConditionalApproval, decision.Outcome)
		assert.Equal(t, ReasonIncomeVerificationRequired, decision.Reason)
		assert.InDelta(t, 11625.01, RoundTo(decision.EMI, 2), 0.01)
	})

	t.Run("above limit with verified salary but unaffordable EMI goes conditional", func(t *testing.T) {
		profile := makeProfile(t, 780, 200000, 15000, true)
		request := makeRequest(t, 300000, 12, 12)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeConditionalApproval, decision.Outcome)
		assert.Equal(t, ReasonIncomeVerificationRequired, decision.Reason)
	})

	t.Run("principal equal to twice the limit stays in the conditional band", func(t *testing.T) {
		profile := makeProfile(t, 750, 200000, 50000, false)
		request := makeRequest(t, 400000, 36, 12)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeConditionalApproval, decision.Outcome)
	})

	t.Run("principal above twice the limit rejects", func(t *testing.T) {
		profile := makeProfile(t, 810, 500000, 85000, false)
		request := makeRequest(t, 1000001, 60, 11)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeRejected, decision.Outcome)
		assert.Equal(t, ReasonAmountExceedsCeiling, decision.Reason)
	})

	t.Run("credit gate wins over every amount rule", func(t *testing.T) {
		// Principal is well within limit, but the score rules first.
		profile := makeProfile(t, 690, 200000, 45000, false)
		request := makeRequest(t, 50000, 12, 10)

		decision, err := Evaluate(profile, request)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeRejected, decision.Outcome)
		assert.Equal(t, ReasonCreditScoreBelowThreshold, decision.Reason)
	})

	t.Run("rejects invalid loan terms before deciding", func(t *testing.T) {
		profile := makeProfile(t, 760, 300000, 65000, false)

		_, err := Evaluate(profile, &LoanRequest{Principal: 100000, TenureMonths: 18, AnnualRatePercent: 10})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = Evaluate(profile, &LoanRequest{Principal: -1, TenureMonths: 12, AnnualRatePercent: 10})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("requires both profile and request", func(t *testing.T) {
		profile := makeProfile(t, 760, 300000, 65000, false)
		request := makeRequest(t, 100000, 12, 10)

		_, err := Evaluate(nil, request)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = Evaluate(profile, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestResolveIncomeVerification(t *testing.T) {
	conditional := func() *Decision {
		return &Decision{
			Outcome: OutcomeConditionalApproval,
			Reason:  ReasonIncomeVerificationRequired,
			EMI:     11625.01,
		}
	}

	t.Run("verified salary covering the EMI approves", func(t *testing.T) {
		resolved, verification, err := ResolveIncomeVerification(conditional(), 60000)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeApproved, resolved.Outcome)
		assert.Equal(t, ReasonSalaryBasedApproval, resolved.Reason)
		assert.Equal(t, 11625.01, resolved.EMI)
		assert.True(t, verification.Passed)
		assert.Equal(t, 60000.0, verification.VerifiedSalary)
		assert.False(t, verification.ResolvedAt.IsZero())
	})

	t.Run("verified salary too small rejects", func(t *testing.T) {
		resolved, verification, err := ResolveIncomeVerification(conditional(), 20000)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeRejected, resolved.Outcome)
		assert.Equal(t, ReasonEMIExceedsHalfIncome, resolved.Reason)
		assert.False(t, verification.Passed)
	})

	t.Run("EMI of exactly half the verified salary passes", func(t *testing.T) {
		decision := &Decision{Outcome: OutcomeConditionalApproval, Reason: ReasonIncomeVerificationRequired, EMI: 10000}
		resolved, verification, err := ResolveIncomeVerification(decision, 20000)
		assert.NoError(t, err)
		assert.Equal(t, OutcomeApproved, resolved.Outcome)
		assert.True(t, verification.Passed)
	})

	t.Run("EMI is never recomputed during resolution", func(t *testing.T) {
		decision := &Decision{Outcome: OutcomeConditionalApproval, Reason: ReasonIncomeVerificationRequired, EMI: 12345.67}
		resolved, _, err := ResolveIncomeVerification(decision, 100000)
		assert.NoError(t, err)
		assert.Equal(t, 12345.67, resolved.EMI)
	})

	t.Run("only conditional approvals can be resolved", func(t *testing.T) {
		for _, outcome := range []Outcome{OutcomeApproved, OutcomeRejected} {
			decision := &Decision{Outcome: outcome, EMI: 5000}
			_, _, err := ResolveIncomeVerification(decision, 60000)
			assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
		}
	})

	t.Run("verified salary must be positive", func(t *testing.T) {
		_, _, err := ResolveIncomeVerification(conditional(), 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, _, err = ResolveIncomeVerification(conditional(), -5000)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("nil decision is invalid input", func(t *testing.T) {
		_, _, err := ResolveIncomeVerification(nil, 60000)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestNewLoanRequest(t *testing.T) {
	t.Run("accepts every offered tenure", func(t *testing.T) {
		for _, tenure := range AllowedTenureMonths {
			req, err := NewLoanRequest(100000, tenure, 10)
			assert.NoError(t, err)
			assert.Equal(t, tenure, req.TenureMonths)
		}
	})

	t.Run("rejects tenures outside the offered set", func(t *testing.T) {
		for _, tenure := range []int{0, 6, 18, 30, 72, -12} {
			_, err := NewLoanRequest(100000, tenure, 10)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		}
	})

	t.Run("accepts a zero rate", func(t *testing.T) {
		req, err := NewLoanRequest(100000, 12, 0)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, req.AnnualRatePercent)
	})
}
