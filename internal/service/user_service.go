package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
	"habit-tracker/internal/domain/service"
	"habit-tracker/pkg/hash"
	"habit-tracker/pkg/jwt"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
)

type userService struct {
	userRepo     repository.UserRepository
	sessions     repository.SessionRepository
	tokenManager *jwt.TokenManager
	publisher    service.EventPublisher
	hooks        []service.UserCreatedHook
	hashPassword func(string) (string, error)
	log          zerolog.Logger
}

// UserServiceOption customizes the user service
type UserServiceOption func(*userService)

// WithUserCreatedHook registers a callback run once after each registration, in order
func WithUserCreatedHook(hook service.UserCreatedHook) UserServiceOption {
	return func(s *userService) {
		s.hooks = append(s.hooks, hook)
	}
}

// WithPasswordHasher replaces the bcrypt hasher
func WithPasswordHasher(fn func(string) (string, error)) UserServiceOption {
	return func(s *userService) {
		s.hashPassword = fn
	}
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	sessions repository.SessionRepository,
	tokenManager *jwt.TokenManager,
	publisher service.EventPublisher,
	log zerolog.Logger,
	opts ...UserServiceOption,
) service.UserService {
	s := &userService{
		userRepo:     userRepo,
		sessions:     sessions,
		tokenManager: tokenManager,
		publisher:    publisher,
		hashPassword: hash.HashPassword,
		log:          log.With().Str("component", "user_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *userService) Register(ctx context.Context, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > MaxUsernameLength {
		return nil, fmt.Errorf("username must be 1-%d characters: %w", MaxUsernameLength, domainerrors.ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, domainerrors.ErrInvalidInput)
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	for _, hook := range s.hooks {
		if err := hook(ctx, user); err != nil {
			// Deleting the user cascades to anything a hook already created.
			if delErr := s.userRepo.Delete(context.WithoutCancel(ctx), user.ID); delErr != nil {
				s.log.Error().Err(delErr).Str("user_id", user.ID.String()).Msg("failed to roll back user after hook failure")
			}
			return nil, fmt.Errorf("post-registration hook failed for %s: %w", user.Username, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishUserRegistered(ctx, user); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to publish user registered event")
		}
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*service.AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := hash.ComparePassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, hash.ErrMismatch) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	sessionID := uuid.New()
	token, expiresAt, err := s.tokenManager.GenerateAccessToken(user.ID, sessionID)
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		session := &entity.Session{
			ID:        sessionID,
			UserID:    user.ID,
			CreatedAt: time.Now().UTC(),
			ExpiresAt: expiresAt,
		}
		if err := s.sessions.Set(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	return &service.AuthResult{
		User:        user,
		SessionID:   sessionID,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *userService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *userService) ValidateToken(ctx context.Context, token string) (uuid.UUID, uuid.UUID, error) {
	claims, err := s.tokenManager.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%v: %w", err, domainerrors.ErrUnauthorized)
	}

	if s.sessions != nil {
		session, err := s.sessions.Get(ctx, claims.SessionID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return uuid.Nil, uuid.Nil, fmt.Errorf("session revoked: %w", domainerrors.ErrUnauthorized)
			}
			return uuid.Nil, uuid.Nil, err
		}
		if session.UserID != claims.UserID {
			return uuid.Nil, uuid.Nil, fmt.Errorf("session owner mismatch: %w", domainerrors.ErrUnauthorized)
		}
	}

	return claims.UserID, claims.SessionID, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *userService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.List(ctx)
}
