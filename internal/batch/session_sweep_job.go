package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"origination-engine/internal/domain/journey"
	"origination-engine/internal/infrastructure/monitoring"
)

// SessionSweepJob removes journey sessions idle past their TTL. Expiry is a
// host responsibility; the engine never times a journey out mid-call.
type SessionSweepJob struct {
	store  journey.SessionStore
	ttl    time.Duration
	logger *slog.Logger
}

func NewSessionSweepJob(store journey.SessionStore, ttl time.Duration, logger *slog.Logger) *SessionSweepJob {
	if store == nil || logger == nil {
		panic("SessionSweepJob dependencies cannot be nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionSweepJob{
		store:  store,
		ttl:    ttl,
		logger: logger.With("job", "SessionSweep"),
	}
}

func (j *SessionSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	cutoff := startTime.Add(-j.ttl)
	j.logger.InfoContext(ctx, "Starting journey session sweep.", slog.Time("cutoff", cutoff))

	removed, err := j.store.DeleteExpired(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Session sweep failed.", slog.Any("error", err))
		return fmt.Errorf("cannot sweep expired sessions: %w", err)
	}

	monitoring.RecordSessionsSwept(removed)
	j.logger.InfoContext(ctx, "Journey session sweep finished.",
		slog.Int("removed", removed),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
