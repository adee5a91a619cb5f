package service

import (
	"context"

	"habit-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// HabitService manages a user's habits
type HabitService interface {
	// CreateHabit creates a habit; a missing or malformed time falls back to 07:00
	CreateHabit(ctx context.Context, userID uuid.UUID, title, timeOfDay string) (*entity.Habit, error)

	// GetHabit retrieves a habit owned by the user
	GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*entity.Habit, error)

	// ListHabits lists the user's habits ordered by time of day, then title
	ListHabits(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error)

	// UpdateHabit changes title and time; a missing or malformed time keeps the existing one
	UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, title, timeOfDay string) (*entity.Habit, error)

	// DeleteHabit deletes a habit and all of its daily tasks
	DeleteHabit(ctx context.Context, userID, habitID uuid.UUID) error
}
