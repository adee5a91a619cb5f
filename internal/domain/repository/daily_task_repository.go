package repository

import (
	"context"
	"time"

	"habit-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// DailyTaskRepository defines the interface for daily task persistence
type DailyTaskRepository interface {
	// Create inserts a task; a duplicate (habit, date) fails with ErrConstraintViolation
	Create(ctx context.Context, task *entity.DailyTask) error

	// GetByHabitAndDate retrieves the task of a habit on a date
	GetByHabitAndDate(ctx context.Context, habitID uuid.UUID, date time.Time) (*entity.DailyTask, error)

	// GetByIDAndUserID retrieves a task owned by the user
	GetByIDAndUserID(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error)

	// GetByUserAndDateRange retrieves tasks dated within [start, end] ordered by date, then habit time
	GetByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.DailyTask, error)

	// GetByUserID retrieves every task of a user ordered by date, then habit time
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.DailyTask, error)

	// ToggleDone flips is_done of a task owned by the user and returns the updated task
	ToggleDone(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error)

	// Delete removes a task owned by the user
	Delete(ctx context.Context, taskID, userID uuid.UUID) error

	// CountByUserAndDateRange counts all and completed tasks dated within [start, end]
	CountByUserAndDateRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (total, completed int, err error)
}
