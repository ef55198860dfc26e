package journey

import (
	"fmt"
	"strings"
	"time"

	"origination-engine/internal/domain/customer"
	"origination-engine/internal/domain/underwriting"
	"origination-engine/internal/pkg/apperrors"
)

// SanctionRecord is a read-only projection of profile, request and final EMI.
// It exists only for approved journeys and feeds the document-rendering
// collaborator; it is never persisted beyond the session.
type SanctionRecord struct {
	CustomerID        string    `json:"customerId"`
	CustomerName      string    `json:"customerName"`
	City              string    `json:"city"`
	Principal         float64   `json:"principal"`
	TenureMonths      int       `json:"tenureMonths"`
	AnnualRatePercent float64   `json:"annualRatePercent"`
	EMI               float64   `json:"emi"`
	SanctionedAt      time.Time `json:"sanctionedAt"`
}

func NewSanctionRecord(profile *customer.Profile, request *underwriting.LoanRequest, emi underwriting.Money) (*SanctionRecord, error) {
	if profile == nil || request == nil {
		return nil, fmt.Errorf("%w: sanction record requires profile and request", apperrors.ErrInvalidInput)
	}
	if emi <= 0 {
		return nil, fmt.Errorf("%w: sanction record requires a positive EMI", apperrors.ErrInvalidInput)
	}
	return &SanctionRecord{
		CustomerID:        profile.CustomerID,
		CustomerName:      profile.Name,
		City:              profile.City,
		Principal:         request.Principal,
		TenureMonths:      request.TenureMonths,
		AnnualRatePercent: request.AnnualRatePercent,
		EMI:               underwriting.RoundTo(emi, 2),
		SanctionedAt:      time.Now(),
	}, nil
}

// Letter renders the plain-text sanction notice. Typesetting beyond plain
// text is the document collaborator's job.
func (r *SanctionRecord) Letter() string {
	var b strings.Builder
	b.WriteString("PERSONAL LOAN SANCTION LETTER\n\n")
	fmt.Fprintf(&b, "Date: %s\n\n", r.SanctionedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Dear %s,\n\n", r.CustomerName)
	b.WriteString("We are pleased to inform you that your Personal Loan has been approved.\n\n")
	fmt.Fprintf(&b, "Loan Amount: %.2f\n", r.Principal)
	fmt.Fprintf(&b, "Tenure: %d months\n", r.TenureMonths)
	fmt.Fprintf(&b, "Annual Interest Rate: %.2f%%\n", r.AnnualRatePercent)
	fmt.Fprintf(&b, "Monthly EMI: %.2f\n", r.EMI)
	fmt.Fprintf(&b, "City: %s\n\n", r.City)
	b.WriteString("Regards,\nABC NBFC Ltd.\n")
	return b.String()
}
