package service

import (
	"context"
	"time"

	"habit-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// GenerationReport summarizes a bulk generation run
type GenerationReport struct {
	Date  time.Time
	Users int
	Tasks int
}

// TaskService materializes and manages daily tasks
type TaskService interface {
	// Materialize ensures exactly one task exists per habit of the user on date.
	// Existing tasks are returned untouched.
	Materialize(ctx context.Context, userID uuid.UUID, date time.Time) ([]*entity.DailyTask, error)

	// MaterializeRange materializes every day in [start, end] in ascending order
	// and returns the number of tasks covering the range
	MaterializeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error)

	// GenerateForAllUsers materializes date and the daysBack previous days for every user
	GenerateForAllUsers(ctx context.Context, date time.Time, daysBack int) (*GenerationReport, error)

	// ToggleDone flips the completion flag of a task owned by the user
	ToggleDone(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error)

	GetTask(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error)
	ListByDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*entity.DailyTask, error)
	ListByRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.DailyTask, error)
	DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error

	// Dashboard groups all of the user's tasks by date, newest first
	Dashboard(ctx context.Context, userID uuid.UUID, today time.Time) (*Dashboard, error)
}

// Dashboard is today's task list plus the full history grouped by day
type Dashboard struct {
	Today      time.Time
	TodayTasks []*entity.DailyTask
	Days       []entity.DayGroup
}
