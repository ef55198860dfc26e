package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"origination-engine/internal/api/handler/dto"
	"origination-engine/internal/domain/customer"
	"origination-engine/internal/domain/journey"
	"origination-engine/internal/domain/underwriting"
	"origination-engine/internal/pkg/apperrors"
)

type MockJourneyService struct {
	mock.Mock
}

func (m *MockJourneyService) StartJourney(ctx context.Context) (*journey.Session, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*journey.Session)
	return s, args.Error(1)
}

func (m *MockJourneyService) GetJourney(ctx context.Context, journeyID string) (*journey.Session, error) {
	args := m.Called(ctx, journeyID)
	s, _ := args.Get(0).(*journey.Session)
	return s, args.Error(1)
}

func (m *MockJourneyService) SelectCustomer(ctx context.Context, journeyID, customerID string) (*journey.Session, error) {
	args := m.Called(ctx, journeyID, customerID)
	s, _ := args.Get(0).(*journey.Session)
	return s, args.Error(1)
}

func (m *MockJourneyService) SubmitLoanTerms(ctx context.Context, journeyID string, principal underwriting.Money, tenureMonths int, annualRatePercent float64) (*journey.Session, error) {
	args := m.Called(ctx, journeyID, principal, tenureMonths, annualRatePercent)
	s, _ := args.Get(0).(*journey.Session)
	return s, args.Error(1)
}

func (m *MockJourneyService) ResolveIncomeVerification(ctx context.Context, journeyID string, verifiedSalary underwriting.Money) (*journey.Session, error) {
	args := m.Called(ctx, journeyID, verifiedSalary)
	s, _ := args.Get(0).(*journey.Session)
	return s, args.Error(1)
}

func (m *MockJourneyService) ResetJourney(ctx context.Context, journeyID string) (*journey.Session, error) {
	args := m.Called(ctx, journeyID)
	s, _ := args.Get(0).(*journey.Session)
	return s, args.Error(1)
}

func newJourneyTestRouter(svc journey.JourneyService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	h := NewJourneyHandler(svc, logger)

	r := chi.NewRouter()
	r.Post("/journeys", h.StartJourney)
	r.Route("/journeys/{journeyID}", func(r chi.Router) {
		r.Get("/", h.GetJourney)
		r.Post("/customer", h.SelectCustomer)
		r.Post("/terms", h.SubmitTerms)
		r.Post("/income-verification", h.ResolveVerification)
		r.Get("/sanction", h.GetSanction)
		r.Post("/reset", h.ResetJourney)
	})
	return r
}

func sessionFixture(state journey.State) *journey.Session {
	now := time.Now()
	return &journey.Session{
		ID:        "journey-1",
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func doJSON(t *testing.T, router http.Handler, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJourneyResponse(t *testing.T, rec *httptest.ResponseRecorder) dto.JourneyResponse {
	t.Helper()
	var resp dto.JourneyResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestStartJourneyHandler(t *testing.T) {
	svc := new(MockJourneyService)
	router := newJourneyTestRouter(svc)

	svc.On("StartJourney", mock.Anything).Return(sessionFixture(journey.StateSelectingCustomer), nil).Once()

	rec := doJSON(t, router, http.MethodPost, "/journeys", nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeJourneyResponse(t, rec)
	assert.Equal(t, "journey-1", resp.ID)
	assert.Equal(t, string(journey.StateSelectingCustomer), resp.State)
	assert.False(t, resp.Terminal)
	svc.AssertExpectations(t)
}

func TestGetJourneyHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		svc.On("GetJourney", mock.Anything, "journey-1").Return(sessionFixture(journey.StateCollectingLoanTerms), nil).Once()

		rec := doJSON(t, router, http.MethodGet, "/journeys/journey-1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		svc.On("GetJourney", mock.Anything, "missing").
			Return(nil, fmt.Errorf("%w: journey missing not found", apperrors.ErrNotFound)).Once()

		rec := doJSON(t, router, http.MethodGet, "/journeys/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSelectCustomerHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		session := sessionFixture(journey.StateCollectingLoanTerms)
		session.Profile = &customer.Profile{CustomerID: "C001", Name: "Rahul Verma", CreditScore: 760, PreapprovedLimit: 300000, MonthlySalary: 65000}
		svc.On("SelectCustomer", mock.Anything, "journey-1", "C001").Return(session, nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/customer", dto.SelectCustomerRequest{CustomerID: "C001"})

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeJourneyResponse(t, rec)
		assert.NotNil(t, resp.Customer)
		assert.Equal(t, "C001", resp.Customer.CustomerID)
	})

	t.Run("missing customer id in payload", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/customer", dto.SelectCustomerRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SelectCustomer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		svc.On("SelectCustomer", mock.Anything, "journey-1", "C999").
			Return(nil, fmt.Errorf("%w: C999", apperrors.ErrUnknownCustomer)).Once()

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/customer", dto.SelectCustomerRequest{CustomerID: "C999"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed payload", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/journeys/journey-1/customer", bytes.NewBufferString(`{"customerId": 42, "extra": true}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSubmitTermsHandler(t *testing.T) {
	t.Run("approved journey returns decision and sanction", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		session := sessionFixture(journey.StateCompleted)
		session.Decision = &underwriting.Decision{
			Outcome: underwriting.OutcomeApproved,
			Reason:  underwriting.ReasonWithinPreapprovedLimit,
			EMI:     12003.218,
		}
		session.Sanction = &journey.SanctionRecord{CustomerID: "C001", EMI: 12003.22}
		svc.On("SubmitLoanTerms", mock.Anything, "journey-1", 250000.0, 24, 14.0).Return(session, nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/terms",
			dto.SubmitTermsRequest{Principal: 250000, TenureMonths: 24, AnnualRatePercent: 14})

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeJourneyResponse(t, rec)
		assert.True(t, resp.Terminal)
		assert.Equal(t, "APPROVED", resp.Decision.Outcome)
		assert.Equal(t, "12003.22", resp.Decision.EMI)
		assert.NotNil(t, resp.Sanction)
	})

	t.Run("invalid terms fail fast", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/terms",
			dto.SubmitTermsRequest{Principal: -1, TenureMonths: 24, AnnualRatePercent: 14})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SubmitLoanTerms", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("illegal state maps to conflict", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		svc.On("SubmitLoanTerms", mock.Anything, "journey-1", 100000.0, 12, 12.0).
			Return(nil, fmt.Errorf("%w: event SUBMIT_TERMS not legal in state START", apperrors.ErrIllegalTransition)).Once()

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/terms",
			dto.SubmitTermsRequest{Principal: 100000, TenureMonths: 12, AnnualRatePercent: 12})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestResolveVerificationHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		session := sessionFixture(journey.StateCompleted)
		session.Verification = &underwriting.IncomeVerification{VerifiedSalary: 60000, Passed: true, ResolvedAt: time.Now()}
		svc.On("ResolveIncomeVerification", mock.Anything, "journey-1", 60000.0).Return(session, nil).Once()

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/income-verification",
			dto.ResolveVerificationRequest{VerifiedSalary: 60000})

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeJourneyResponse(t, rec)
		assert.True(t, resp.Verification.Passed)
	})

	t.Run("non-positive salary fails validation", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/income-verification",
			dto.ResolveVerificationRequest{VerifiedSalary: 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("already resolved maps to conflict", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		svc.On("ResolveIncomeVerification", mock.Anything, "journey-1", 60000.0).
			Return(nil, fmt.Errorf("%w: journey journey-1", apperrors.ErrVerificationResolved)).Once()

		rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/income-verification",
			dto.ResolveVerificationRequest{VerifiedSalary: 60000})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetSanctionHandler(t *testing.T) {
	sanctioned := func() *journey.Session {
		session := sessionFixture(journey.StateCompleted)
		session.Sanction = &journey.SanctionRecord{
			CustomerID:        "C001",
			CustomerName:      "Rahul Verma",
			City:              "Bengaluru",
			Principal:         250000,
			TenureMonths:      24,
			AnnualRatePercent: 14,
			EMI:               12003.22,
			SanctionedAt:      time.Now(),
		}
		return session
	}

	t.Run("returns the sanction record", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		svc.On("GetJourney", mock.Anything, "journey-1").Return(sanctioned(), nil).Once()

		rec := doJSON(t, router, http.MethodGet, "/journeys/journey-1/sanction", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.SanctionResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "C001", resp.CustomerID)
		assert.Equal(t, "12003.22", resp.EMI)
		assert.Empty(t, resp.Letter)
	})

	t.Run("include=letter embeds the rendered letter", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		svc.On("GetJourney", mock.Anything, "journey-1").Return(sanctioned(), nil).Once()

		rec := doJSON(t, router, http.MethodGet, "/journeys/journey-1/sanction?include=letter", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.SanctionResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Letter, "PERSONAL LOAN SANCTION LETTER")
		assert.Contains(t, resp.Letter, "Dear Rahul Verma,")
	})

	t.Run("journey without a sanction is not found", func(t *testing.T) {
		svc := new(MockJourneyService)
		router := newJourneyTestRouter(svc)

		svc.On("GetJourney", mock.Anything, "journey-1").Return(sessionFixture(journey.StateRejected), nil).Once()

		rec := doJSON(t, router, http.MethodGet, "/journeys/journey-1/sanction", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestResetJourneyHandler(t *testing.T) {
	svc := new(MockJourneyService)
	router := newJourneyTestRouter(svc)

	svc.On("ResetJourney", mock.Anything, "journey-1").Return(sessionFixture(journey.StateStart), nil).Once()

	rec := doJSON(t, router, http.MethodPost, "/journeys/journey-1/reset", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJourneyResponse(t, rec)
	assert.Equal(t, string(journey.StateStart), resp.State)
	assert.Nil(t, resp.Customer)
	assert.Nil(t, resp.Decision)
}
