package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"origination-engine/internal/domain/journey"
	"origination-engine/internal/pkg/apperrors"
)

// MemoryStore keeps journey sessions in process memory. It is the default
// store: journeys are session ephemera and nothing in the engine requires
// them to survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]journey.Session
}

var _ journey.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]journey.Session)}
}

func (s *MemoryStore) Save(_ context.Context, session *journey.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("%w: session must have an id", apperrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Find returns a copy so callers can mutate freely and abandon their copy on
// validation errors without touching the stored state.
func (s *MemoryStore) Find(_ context.Context, sessionID string) (*journey.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	cp := stored
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, stored := range s.sessions {
		if stored.ExpiredSince(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len is a test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
