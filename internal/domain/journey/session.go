package journey

import (
	"time"

	"origination-engine/internal/domain/customer"
	"origination-engine/internal/domain/underwriting"
)

// Session is the explicit journey value object. The host passes it (by ID)
// into every turn; there is no ambient or global journey state anywhere in
// the engine. Everything except the catalog profile is session-scoped and
// discarded on reset.
type Session struct {
	ID           string                           `json:"id"`
	State        State                            `json:"state"`
	Profile      *customer.Profile                `json:"profile,omitempty"`
	Request      *underwriting.LoanRequest        `json:"request,omitempty"`
	Decision     *underwriting.Decision           `json:"decision,omitempty"`
	Verification *underwriting.IncomeVerification `json:"verification,omitempty"`
	Sanction     *SanctionRecord                  `json:"sanction,omitempty"`
	CreatedAt    time.Time                        `json:"createdAt"`
	UpdatedAt    time.Time                        `json:"updatedAt"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		State:     StateStart,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// apply advances the session state, leaving the rest of the session untouched.
func (s *Session) apply(event Event) error {
	next, err := Advance(s.State, event)
	if err != nil {
		return err
	}
	s.State = next
	s.UpdatedAt = time.Now()
	return nil
}

// Reset returns the session to Start and discards every session-scoped
// entity. It is legal from any state, including terminal ones.
func (s *Session) Reset() {
	s.State = StateStart
	s.Profile = nil
	s.Request = nil
	s.Decision = nil
	s.Verification = nil
	s.Sanction = nil
	s.UpdatedAt = time.Now()
}

// ExpiredSince reports whether the session has been idle since the cutoff.
// Expiry is a host concern; the engine itself has no timeouts.
func (s *Session) ExpiredSince(cutoff time.Time) bool {
	return s.UpdatedAt.Before(cutoff)
}
