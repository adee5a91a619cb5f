package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habit-tracker/internal/domain/service"
)

// InlineEnqueuer materializes immediately when Redis/Asynq is not configured
type InlineEnqueuer struct {
	tasks service.TaskService
}

func NewInlineEnqueuer(tasks service.TaskService) *InlineEnqueuer {
	return &InlineEnqueuer{tasks: tasks}
}

func (q *InlineEnqueuer) EnqueueMaterialize(ctx context.Context, userID uuid.UUID, date time.Time) error {
	_, err := q.tasks.Materialize(ctx, userID, date)
	return err
}

func (q *InlineEnqueuer) Close() error {
	return nil
}

var _ service.TaskEnqueuer = (*InlineEnqueuer)(nil)
