package repository

import (
	"context"

	"habit-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user, ErrUserExists on a taken username
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// List retrieves all users ordered by username
	List(ctx context.Context) ([]*entity.User, error)

	// Delete removes a user together with their habits and tasks
	Delete(ctx context.Context, userID uuid.UUID) error
}

// SessionRepository stores login sessions
type SessionRepository interface {
	Set(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, sessionID uuid.UUID) (*entity.Session, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}
