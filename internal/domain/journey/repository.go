package journey

import (
	"context"
	"time"
)

// SessionStore holds sessions between interaction turns. Each session is
// isolated; the store never shares mutable state across sessions.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error

	Find(ctx context.Context, sessionID string) (*Session, error)

	Delete(ctx context.Context, sessionID string) error

	// DeleteExpired removes sessions idle since the cutoff and returns how
	// many were removed. Stores with native expiry may always return zero.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
