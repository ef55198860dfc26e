package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"origination-engine/internal/api/handler/dto"
	"origination-engine/internal/domain/journey"
	"origination-engine/internal/pkg/apperrors"
)

type JourneyHandler struct {
	service journey.JourneyService
	logger  *slog.Logger
}

func NewJourneyHandler(s journey.JourneyService, l *slog.Logger) *JourneyHandler {
	return &JourneyHandler{
		service: s,
		logger:  l.With("component", "JourneyHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrUnknownCustomer):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrIllegalTransition), errors.Is(err, apperrors.ErrVerificationResolved):
		status, message = http.StatusConflict, err.Error()
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getJourneyIDFromURL(r *http.Request) (string, error) {
	id := chi.URLParam(r, "journeyID")
	if id == "" {
		return "", fmt.Errorf("journeyID not found in URL path")
	}
	return id, nil
}

// StartJourney opens a new loan journey session.
//
// @Summary Start a loan journey
// @Description Creates a new journey session and moves it to customer selection.
// @Tags Journeys
// @Produce json
// @Success 201 {object} dto.JourneyResponse "Journey started"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys [post]
// @Security BearerAuth
func (h *JourneyHandler) StartJourney(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.StartJourney(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewJourneyResponse(session))
}

// GetJourney returns the current journey session.
//
// @Summary Retrieve a journey
// @Tags Journeys
// @Produce json
// @Param journeyID path string true "Journey ID"
// @Success 200 {object} dto.JourneyResponse "Journey details"
// @Failure 404 {object} dto.ErrorResponse "Journey not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys/{journeyID} [get]
// @Security BearerAuth
func (h *JourneyHandler) GetJourney(w http.ResponseWriter, r *http.Request) {
	journeyID, err := getJourneyIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	session, err := h.service.GetJourney(r.Context(), journeyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewJourneyResponse(session))
}

// SelectCustomer binds a catalog customer to the journey.
//
// @Summary Select the applicant
// @Tags Journeys
// @Accept json
// @Produce json
// @Param journeyID path string true "Journey ID"
// @Param request body dto.SelectCustomerRequest true "Customer selection payload"
// @Success 200 {object} dto.JourneyResponse "Customer selected"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Journey or customer not found"
// @Failure 409 {object} dto.ErrorResponse "Selection not legal in current state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys/{journeyID}/customer [post]
// @Security BearerAuth
func (h *JourneyHandler) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	journeyID, err := getJourneyIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	var req dto.SelectCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	session, err := h.service.SelectCustomer(r.Context(), journeyID, req.CustomerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewJourneyResponse(session))
}

// SubmitTerms submits the requested loan terms and runs underwriting.
//
// @Summary Submit loan terms
// @Description Validates the requested principal, tenure and rate, evaluates the underwriting cascade and advances the journey to its decision state.
// @Tags Journeys
// @Accept json
// @Produce json
// @Param journeyID path string true "Journey ID"
// @Param request body dto.SubmitTermsRequest true "Loan terms payload"
// @Success 200 {object} dto.JourneyResponse "Decision reached"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or terms"
// @Failure 404 {object} dto.ErrorResponse "Journey not found"
// @Failure 409 {object} dto.ErrorResponse "Submission not legal in current state"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys/{journeyID}/terms [post]
// @Security BearerAuth
func (h *JourneyHandler) SubmitTerms(w http.ResponseWriter, r *http.Request) {
	journeyID, err := getJourneyIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	var req dto.SubmitTermsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	session, err := h.service.SubmitLoanTerms(r.Context(), journeyID, req.Principal, req.TenureMonths, req.AnnualRatePercent)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewJourneyResponse(session))
}

// ResolveVerification resolves the pending income verification.
//
// @Summary Resolve income verification
// @Description Applies the 50%-of-income rule against the verified salary; legal exactly once, and only while the journey awaits verification.
// @Tags Journeys
// @Accept json
// @Produce json
// @Param journeyID path string true "Journey ID"
// @Param request body dto.ResolveVerificationRequest true "Verified salary payload"
// @Success 200 {object} dto.JourneyResponse "Verification resolved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Journey not found"
// @Failure 409 {object} dto.ErrorResponse "Journey does not await verification"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys/{journeyID}/income-verification [post]
// @Security BearerAuth
func (h *JourneyHandler) ResolveVerification(w http.ResponseWriter, r *http.Request) {
	journeyID, err := getJourneyIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	var req dto.ResolveVerificationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	session, err := h.service.ResolveIncomeVerification(r.Context(), journeyID, req.VerifiedSalary)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewJourneyResponse(session))
}

// GetSanction returns the sanction record, optionally with the letter text.
//
// @Summary Retrieve the sanction record
// @Description Returns the sanction projection for an approved journey. Add `include=letter` to embed the rendered letter text.
// @Tags Journeys
// @Produce json
// @Param journeyID path string true "Journey ID"
// @Param include query string false "Optional parameter to include the rendered letter (use 'letter')"
// @Success 200 {object} dto.SanctionResponse "Sanction record"
// @Failure 404 {object} dto.ErrorResponse "Journey not found or not approved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys/{journeyID}/sanction [get]
// @Security BearerAuth
func (h *JourneyHandler) GetSanction(w http.ResponseWriter, r *http.Request) {
	journeyID, err := getJourneyIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	session, err := h.service.GetJourney(r.Context(), journeyID)
	if err != nil {
		respondError(w, err)
		return
	}
	if session.Sanction == nil {
		respondError(w, fmt.Errorf("%w: journey %s has no sanction record", apperrors.ErrNotFound, journeyID))
		return
	}

	includeLetter := r.URL.Query().Get("include") == "letter"
	respondJSON(w, http.StatusOK, dto.NewSanctionResponse(session.Sanction, includeLetter))
}

// ResetJourney returns the journey to its start state.
//
// @Summary Reset a journey
// @Description Discards the loan request, decision, verification and sanction record and returns the session to the start state. Legal from any state.
// @Tags Journeys
// @Produce json
// @Param journeyID path string true "Journey ID"
// @Success 200 {object} dto.JourneyResponse "Journey reset"
// @Failure 404 {object} dto.ErrorResponse "Journey not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys/{journeyID}/reset [post]
// @Security BearerAuth
func (h *JourneyHandler) ResetJourney(w http.ResponseWriter, r *http.Request) {
	journeyID, err := getJourneyIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	session, err := h.service.ResetJourney(r.Context(), journeyID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewJourneyResponse(session))
}
