package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"origination-engine/internal/domain/journey"
	"origination-engine/internal/domain/underwriting"
)

type SelectCustomerRequest struct {
	CustomerID string `json:"customerId"`
}

func (r *SelectCustomerRequest) Validate() error {
	if r.CustomerID == "" {
		return fmt.Errorf("customerId is required")
	}
	return nil
}

type SubmitTermsRequest struct {
	Principal         float64 `json:"principal"`
	TenureMonths      int     `json:"tenureMonths"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
}

func (r *SubmitTermsRequest) Validate() error {
	if r.Principal <= 0 {
		return fmt.Errorf("principal must be greater than zero")
	}
	if r.TenureMonths <= 0 {
		return fmt.Errorf("tenureMonths must be positive")
	}
	if r.AnnualRatePercent < 0 {
		return fmt.Errorf("annualRatePercent cannot be negative")
	}
	return nil
}

type ResolveVerificationRequest struct {
	VerifiedSalary float64 `json:"verifiedSalary"`
}

func (r *ResolveVerificationRequest) Validate() error {
	if r.VerifiedSalary <= 0 {
		return fmt.Errorf("verifiedSalary must be greater than zero")
	}
	return nil
}

type JourneyResponse struct {
	ID           string                `json:"id"`
	State        string                `json:"state"`
	Terminal     bool                  `json:"terminal"`
	Customer     *CustomerResponse     `json:"customer,omitempty"`
	Request      *LoanTermsResponse    `json:"request,omitempty"`
	Decision     *DecisionResponse     `json:"decision,omitempty"`
	Verification *VerificationResponse `json:"verification,omitempty"`
	Sanction     *SanctionResponse     `json:"sanction,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

type LoanTermsResponse struct {
	Principal         string  `json:"principal"`
	TenureMonths      int     `json:"tenureMonths"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
}

type DecisionResponse struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason"`
	EMI     string `json:"emi"`
}

type VerificationResponse struct {
	VerifiedSalary string    `json:"verifiedSalary"`
	Passed         bool      `json:"passed"`
	ResolvedAt     time.Time `json:"resolvedAt"`
}

type SanctionResponse struct {
	CustomerID        string    `json:"customerId"`
	CustomerName      string    `json:"customerName"`
	City              string    `json:"city"`
	Principal         string    `json:"principal"`
	TenureMonths      int       `json:"tenureMonths"`
	AnnualRatePercent float64   `json:"annualRatePercent"`
	EMI               string    `json:"emi"`
	SanctionedAt      time.Time `json:"sanctionedAt"`
	Letter            string    `json:"letter,omitempty"`
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func NewJourneyResponse(session *journey.Session) JourneyResponse {
	resp := JourneyResponse{
		ID:        session.ID,
		State:     string(session.State),
		Terminal:  session.State.Terminal(),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}

	if session.Profile != nil {
		c := NewCustomerResponse(session.Profile)
		resp.Customer = &c
	}
	if session.Request != nil {
		resp.Request = &LoanTermsResponse{
			Principal:         formatMoney(session.Request.Principal),
			TenureMonths:      session.Request.TenureMonths,
			AnnualRatePercent: session.Request.AnnualRatePercent,
		}
	}
	if session.Decision != nil {
		resp.Decision = NewDecisionResponse(session.Decision)
	}
	if session.Verification != nil {
		resp.Verification = &VerificationResponse{
			VerifiedSalary: formatMoney(session.Verification.VerifiedSalary),
			Passed:         session.Verification.Passed,
			ResolvedAt:     session.Verification.ResolvedAt,
		}
	}
	if session.Sanction != nil {
		resp.Sanction = NewSanctionResponse(session.Sanction, false)
	}

	return resp
}

func NewDecisionResponse(d *underwriting.Decision) *DecisionResponse {
	return &DecisionResponse{
		Outcome: string(d.Outcome),
		Reason:  d.Reason,
		EMI:     formatMoney(underwriting.RoundTo(d.EMI, 2)),
	}
}

func NewSanctionResponse(record *journey.SanctionRecord, includeLetter bool) *SanctionResponse {
	resp := &SanctionResponse{
		CustomerID:        record.CustomerID,
		CustomerName:      record.CustomerName,
		City:              record.City,
		Principal:         formatMoney(record.Principal),
		TenureMonths:      record.TenureMonths,
		AnnualRatePercent: record.AnnualRatePercent,
		EMI:               formatMoney(record.EMI),
		SanctionedAt:      record.SanctionedAt,
	}
	if includeLetter {
		resp.Letter = record.Letter()
	}
	return resp
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
