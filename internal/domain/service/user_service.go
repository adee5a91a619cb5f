package service

import (
	"context"
	"time"

	"habit-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// UserCreatedHook runs once right after a user is first persisted
type UserCreatedHook func(ctx context.Context, user *entity.User) error

// AuthResult is returned on successful login
type AuthResult struct {
	User        *entity.User
	SessionID   uuid.UUID
	AccessToken string
	ExpiresAt   time.Time
}

// UserService handles registration and authentication
type UserService interface {
	// Register creates a user and runs the post-creation hooks. If a hook
	// fails the user is deleted again, together with whatever the hooks had
	// already created, so a registered user always has the full default set.
	Register(ctx context.Context, username, password string) (*entity.User, error)

	// Login verifies credentials and opens a session
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// Logout closes a session
	Logout(ctx context.Context, sessionID uuid.UUID) error

	// ValidateToken resolves an access token to the owning user and session
	ValidateToken(ctx context.Context, token string) (userID, sessionID uuid.UUID, err error)

	GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ListUsers(ctx context.Context) ([]*entity.User, error)
}
