package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
)

// SessionStorage handles session storage in Redis
type SessionStorage struct {
	client *redis.Client
}

// NewSessionStorage creates a new session storage
func NewSessionStorage(client *redis.Client) *SessionStorage {
	return &SessionStorage{client: client}
}

// sessionKey generates Redis key for session
func (s *SessionStorage) sessionKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:%s", sessionID.String())
}

// userSessionsKey generates Redis key for user sessions set
func (s *SessionStorage) userSessionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:sessions", userID.String())
}

// Set stores a session until it expires
func (s *SessionStorage) Set(ctx context.Context, session *entity.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(session.ID), data, ttl)
	pipe.SAdd(ctx, s.userSessionsKey(session.UserID), session.ID.String())
	pipe.Expire(ctx, s.userSessionsKey(session.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (s *SessionStorage) Get(ctx context.Context, sessionID uuid.UUID) (*entity.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session: %w", domainerrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes a session
func (s *SessionStorage) Delete(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(sessionID))
	pipe.SRem(ctx, s.userSessionsKey(session.UserID), sessionID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

var _ repository.SessionRepository = (*SessionStorage)(nil)
