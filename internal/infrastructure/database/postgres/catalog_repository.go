package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"

	"origination-engine/internal/domain/customer"
	"origination-engine/internal/infrastructure/monitoring"
	"origination-engine/internal/pkg/apperrors"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

// CatalogRepository reads customer profiles from Postgres. It is only used
// once, at process start, to snapshot the book into an in-memory catalog; the
// engine itself never queries the database per request.
type CatalogRepository struct {
	db     DBPool
	logger *slog.Logger
}

func NewCatalogRepository(db DBPool, logger *slog.Logger) *CatalogRepository {
	if db == nil {
		panic("DBPool cannot be nil for CatalogRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCatalogRepository, using default stderr handler")
	}
	return &CatalogRepository{
		db:     db,
		logger: logger.With("component", "CatalogRepository"),
	}
}

const fetchProfilesQuery = `
SELECT customer_id, name, city, credit_score, preapproved_limit, monthly_salary, salary_verified
FROM customer_profiles
ORDER BY customer_id`

// FetchAllProfiles loads every customer profile row.
func (r *CatalogRepository) FetchAllProfiles(ctx context.Context) ([]*customer.Profile, error) {
	start := time.Now()
	rows, err := r.db.Query(ctx, fetchProfilesQuery)
	if err != nil {
		monitoring.RecordDBQuery("fetch_all_profiles", "error", time.Since(start))
		r.logger.ErrorContext(ctx, "Failed to query customer profiles", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to query customer profiles")
	}
	defer rows.Close()

	var profiles []*customer.Profile
	for rows.Next() {
		var (
			customerID, name, city          string
			creditScore                     int
			preapprovedLimit, monthlySalary float64
			salaryVerified                  bool
		)
		if err := rows.Scan(&customerID, &name, &city, &creditScore, &preapprovedLimit, &monthlySalary, &salaryVerified); err != nil {
			monitoring.RecordDBQuery("fetch_all_profiles", "error", time.Since(start))
			return nil, apperrors.WrapDatabaseError(err, "failed to scan customer profile row")
		}

		profile, err := customer.NewProfile(customerID, name, city, creditScore, preapprovedLimit, monthlySalary, salaryVerified)
		if err != nil {
			monitoring.RecordDBQuery("fetch_all_profiles", "error", time.Since(start))
			return nil, fmt.Errorf("invalid profile row for customer %s: %w", customerID, err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		monitoring.RecordDBQuery("fetch_all_profiles", "error", time.Since(start))
		return nil, apperrors.WrapDatabaseError(err, "failed to iterate customer profile rows")
	}

	monitoring.RecordDBQuery("fetch_all_profiles", "success", time.Since(start))
	r.logger.InfoContext(ctx, "Loaded customer profiles from database", slog.Int("count", len(profiles)))
	return profiles, nil
}

// LoadCatalog snapshots the profile table into a read-only static catalog.
func (r *CatalogRepository) LoadCatalog(ctx context.Context) (customer.Catalog, error) {
	profiles, err := r.FetchAllProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: customer_profiles table is empty", apperrors.ErrNotFound)
	}
	return customer.NewStaticCatalog(profiles)
}
