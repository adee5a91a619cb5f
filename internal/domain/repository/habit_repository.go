package repository

import (
	"context"

	"habit-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// HabitRepository defines the interface for habit persistence
type HabitRepository interface {
	// Create creates a new habit
	Create(ctx context.Context, habit *entity.Habit) error

	// GetByIDAndUserID retrieves a habit owned by the user
	GetByIDAndUserID(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)

	// GetByUserID retrieves all habits of a user ordered by time of day, then title
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error)

	// Update updates title and time of a habit owned by habit.UserID
	Update(ctx context.Context, habit *entity.Habit) error

	// Delete removes a habit owned by the user together with its daily tasks
	Delete(ctx context.Context, habitID, userID uuid.UUID) error
}
