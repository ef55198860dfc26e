package customer

import (
	"context"
	"log/slog"
	"os"

	"origination-engine/internal/pkg/apperrors"
)

type CustomerService interface {
	GetCustomer(ctx context.Context, customerID string) (*Profile, error)

	ListCustomers(ctx context.Context) ([]*Profile, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	catalog Catalog
	logger  *slog.Logger
}

func NewCustomerService(catalog Catalog, logger *slog.Logger) CustomerService {
	if catalog == nil {
		panic("customer catalog cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*Profile, error) {
	s.logger.DebugContext(ctx, "Looking up customer", slog.String("customerID", customerID))
	profile, err := s.catalog.Lookup(ctx, customerID)
	if err != nil {
		s.logger.WarnContext(ctx, "Customer not found in catalog", slog.String("customerID", customerID), slog.Any("error", err))
		return nil, err
	}
	return profile, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Profile, error) {
	profiles, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list catalog customers", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to list customers")
	}
	return profiles, nil
}
