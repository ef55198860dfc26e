package journey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"origination-engine/internal/config"
	"origination-engine/internal/domain/customer"
	"origination-engine/internal/domain/underwriting"
	"origination-engine/internal/event"
	"origination-engine/internal/infrastructure/monitoring"
	"origination-engine/internal/pkg/apperrors"
)

// JourneyService advances one journey session per external input. Every call
// loads the session, applies at most one transition evaluation and saves the
// result; a validation error leaves the stored session untouched.
type JourneyService interface {
	StartJourney(ctx context.Context) (*Session, error)

	GetJourney(ctx context.Context, journeyID string) (*Session, error)

	SelectCustomer(ctx context.Context, journeyID, customerID string) (*Session, error)

	SubmitLoanTerms(ctx context.Context, journeyID string, principal underwriting.Money, tenureMonths int, annualRatePercent float64) (*Session, error)

	ResolveIncomeVerification(ctx context.Context, journeyID string, verifiedSalary underwriting.Money) (*Session, error)

	ResetJourney(ctx context.Context, journeyID string) (*Session, error)
}

var _ JourneyService = (*journeyService)(nil)

type journeyService struct {
	store     SessionStore
	customers customer.CustomerService
	publisher event.EventPublisher
	cfg       config.UnderwritingConfig
	logger    *slog.Logger
}

func NewJourneyService(store SessionStore, customers customer.CustomerService, publisher event.EventPublisher, cfg config.UnderwritingConfig, logger *slog.Logger) JourneyService {
	if store == nil {
		panic("session store cannot be nil")
	}
	if customers == nil {
		panic("customer service cannot be nil")
	}
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewJourneyService, using default stderr handler")
	}

	return &journeyService{
		store:     store,
		customers: customers,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "journeyService")),
	}
}

func (s *journeyService) StartJourney(ctx context.Context) (*Session, error) {
	session := NewSession(uuid.NewString())
	if err := session.apply(EventBegin); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save new journey session", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to save journey session: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordJourneyStarted()
	s.logger.InfoContext(ctx, "Journey started", slog.String("journeyID", session.ID))
	return session, nil
}

func (s *journeyService) GetJourney(ctx context.Context, journeyID string) (*Session, error) {
	session, err := s.store.Find(ctx, journeyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: journey %s not found", apperrors.ErrNotFound, journeyID)
		}
		s.logger.ErrorContext(ctx, "Failed to load journey session", slog.String("journeyID", journeyID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to load journey session: %v", apperrors.ErrInternalServer, err)
	}
	return session, nil
}

func (s *journeyService) SelectCustomer(ctx context.Context, journeyID, customerID string) (*Session, error) {
	session, err := s.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	// Lookup precedes the transition: an unknown customer leaves the journey
	// in SelectingCustomer.
	profile, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := session.apply(EventSelectCustomer); err != nil {
		return nil, err
	}
	session.Profile = profile

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Customer selected", slog.String("journeyID", session.ID), slog.String("customerID", customerID))
	return session, nil
}

func (s *journeyService) SubmitLoanTerms(ctx context.Context, journeyID string, principal underwriting.Money, tenureMonths int, annualRatePercent float64) (*Session, error) {
	session, err := s.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	if annualRatePercent < s.cfg.MinAnnualRatePercent || annualRatePercent > s.cfg.MaxAnnualRatePercent {
		return nil, fmt.Errorf("%w: annual rate %.2f%% outside offered range %.2f%%-%.2f%%",
			apperrors.ErrInvalidInput, annualRatePercent, s.cfg.MinAnnualRatePercent, s.cfg.MaxAnnualRatePercent)
	}

	request, err := underwriting.NewLoanRequest(principal, tenureMonths, annualRatePercent)
	if err != nil {
		return nil, err
	}

	if err := session.apply(EventSubmitTerms); err != nil {
		return nil, err
	}
	session.Request = request

	decision, err := underwriting.Evaluate(session.Profile, session.Request)
	if err != nil {
		return nil, err
	}
	session.Decision = decision
	monitoring.RecordDecision(string(decision.Outcome))
	s.publishDecision(ctx, session)

	switch decision.Outcome {
	case underwriting.OutcomeApproved:
		if err := s.completeWithSanction(ctx, session); err != nil {
			return nil, err
		}
	case underwriting.OutcomeConditionalApproval:
		if err := session.apply(EventRequireVerification); err != nil {
			return nil, err
		}
	case underwriting.OutcomeRejected:
		if err := session.apply(EventReject); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	if session.State.Terminal() {
		monitoring.RecordJourneyTerminal(string(session.State))
	}

	s.logger.InfoContext(ctx, "Loan terms evaluated",
		slog.String("journeyID", session.ID),
		slog.String("outcome", string(decision.Outcome)),
		slog.String("reason", decision.Reason),
		slog.Float64("emi", decision.EMI),
	)
	return session, nil
}

func (s *journeyService) ResolveIncomeVerification(ctx context.Context, journeyID string, verifiedSalary underwriting.Money) (*Session, error) {
	session, err := s.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	if session.Verification != nil {
		return nil, fmt.Errorf("%w: journey %s", apperrors.ErrVerificationResolved, journeyID)
	}
	if session.State != StateAwaitingIncomeVerification {
		return nil, fmt.Errorf("%w: journey %s is in state %s, not awaiting income verification",
			apperrors.ErrIllegalTransition, journeyID, session.State)
	}

	resolved, verification, err := underwriting.ResolveIncomeVerification(session.Decision, verifiedSalary)
	if err != nil {
		return nil, err
	}

	transition := EventVerificationFailed
	if verification.Passed {
		transition = EventVerificationPassed
	}
	if err := session.apply(transition); err != nil {
		return nil, err
	}
	session.Decision = resolved
	session.Verification = verification
	monitoring.RecordDecision(string(resolved.Outcome))
	s.publishDecision(ctx, session)

	if verification.Passed {
		if err := s.issueSanction(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	monitoring.RecordJourneyTerminal(string(session.State))

	s.logger.InfoContext(ctx, "Income verification resolved",
		slog.String("journeyID", session.ID),
		slog.Bool("passed", verification.Passed),
		slog.String("outcome", string(resolved.Outcome)),
	)
	return session, nil
}

func (s *journeyService) ResetJourney(ctx context.Context, journeyID string) (*Session, error) {
	session, err := s.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}

	session.Reset()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Journey reset", slog.String("journeyID", session.ID))
	return session, nil
}

// completeWithSanction drives the Evaluating -> Completed edge for an instant
// approval; the sanction record is constructed as part of the same turn.
func (s *journeyService) completeWithSanction(ctx context.Context, session *Session) error {
	if err := session.apply(EventApprove); err != nil {
		return err
	}
	return s.issueSanction(ctx, session)
}

func (s *journeyService) issueSanction(ctx context.Context, session *Session) error {
	record, err := NewSanctionRecord(session.Profile, session.Request, session.Decision.EMI)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to build sanction record", slog.String("journeyID", session.ID), slog.Any("error", err))
		return fmt.Errorf("%w: failed to build sanction record: %v", apperrors.ErrInternalServer, err)
	}
	session.Sanction = record
	monitoring.RecordSanctionIssued()

	if err := s.publisher.PublishSanctionIssued(ctx, event.SanctionIssuedEvent{
		JourneyID:    session.ID,
		CustomerID:   record.CustomerID,
		Principal:    record.Principal,
		TenureMonths: record.TenureMonths,
		EMI:          record.EMI,
		Timestamp:    time.Now(),
	}); err != nil {
		// Event delivery never blocks the journey.
		s.logger.WarnContext(ctx, "Failed to publish sanction issued event", slog.String("journeyID", session.ID), slog.Any("error", err))
	}
	return nil
}

func (s *journeyService) publishDecision(ctx context.Context, session *Session) {
	customerID := ""
	if session.Profile != nil {
		customerID = session.Profile.CustomerID
	}
	err := s.publisher.PublishLoanDecision(ctx, event.LoanDecisionEvent{
		JourneyID:  session.ID,
		CustomerID: customerID,
		Outcome:    string(session.Decision.Outcome),
		Reason:     session.Decision.Reason,
		EMI:        session.Decision.EMI,
		Timestamp:  time.Now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish loan decision event", slog.String("journeyID", session.ID), slog.Any("error", err))
	}
}

func (s *journeyService) save(ctx context.Context, session *Session) error {
	if err := s.store.Save(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save journey session", slog.String("journeyID", session.ID), slog.Any("error", err))
		return fmt.Errorf("%w: failed to save journey session: %v", apperrors.ErrInternalServer, err)
	}
	return nil
}
