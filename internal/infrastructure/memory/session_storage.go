package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
)

// SessionStorage keeps sessions in process memory when Redis is not configured
type SessionStorage struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
	now      func() time.Time
}

// NewSessionStorage creates an empty in-memory session storage
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[uuid.UUID]entity.Session),
		now:      time.Now,
	}
}

func (s *SessionStorage) Set(ctx context.Context, session *entity.Session) error {
	if !session.ExpiresAt.After(s.now()) {
		return fmt.Errorf("session already expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStorage) Get(ctx context.Context, sessionID uuid.UUID) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session: %w", domainerrors.ErrNotFound)
	}
	if !session.ExpiresAt.After(s.now()) {
		delete(s.sessions, sessionID)
		return nil, fmt.Errorf("session expired: %w", domainerrors.ErrNotFound)
	}
	return &session, nil
}

func (s *SessionStorage) Delete(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

var _ repository.SessionRepository = (*SessionStorage)(nil)
