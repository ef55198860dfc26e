package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"origination-engine/internal/domain/journey"
	"origination-engine/internal/pkg/apperrors"
)

const redisKeyPrefix = "origination:session:"

// RedisStore keeps journey sessions in Redis so several engine replicas can
// serve the same journey. Expiry is delegated to Redis TTLs, so DeleteExpired
// is a no-op here.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ journey.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "RedisSessionStore")),
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, session *journey.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("%w: session must have an id", apperrors.ErrInvalidInput)
	}
	body, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+session.ID, body, s.ttl).Err(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to store session in redis", slog.String("sessionID", session.ID), slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to store session")
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, sessionID string) (*journey.Session, error) {
	body, err := s.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
		}
		s.logger.ErrorContext(ctx, "Failed to load session from redis", slog.String("sessionID", sessionID), slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to load session")
	}

	var session journey.Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return apperrors.WrapDatabaseError(err, "failed to delete session")
	}
	return nil
}

func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int, error) {
	// Redis evicts on TTL by itself.
	return 0, nil
}
