package repository

import (
	"context"
	"sync"

	"github.com/tikiti/ticketing-system/payment-confirm/internal/models"
)

// InMemoryAttemptStore keeps the audit trail in memory. Used in development
// and tests when no DATABASE_URL is configured.
type InMemoryAttemptStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session // by session ID
	latest   map[string]string         // booking reference -> latest session ID
}

func NewInMemoryAttemptStore() *InMemoryAttemptStore {
	return &InMemoryAttemptStore{
		sessions: make(map[string]models.Session),
		latest:   make(map[string]string),
	}
}

func (s *InMemoryAttemptStore) RecordInitiated(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	s.latest[session.BookingReference] = session.ID
	return nil
}

func (s *InMemoryAttemptStore) RecordTerminal(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *InMemoryAttemptStore) GetLatestByBooking(ctx context.Context, bookingReference string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.latest[bookingReference]
	if !ok {
		return nil, ErrNoAttempts
	}
	session := s.sessions[id]
	return &session, nil
}
