package service

import (
	"context"
	"time"

	"habit-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// EventPublisher publishes domain events to the message bus
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, user *entity.User) error
	PublishTasksMaterialized(ctx context.Context, userID uuid.UUID, date time.Time, created int) error
	Close() error
}

// TaskEnqueuer schedules per-user materialization jobs
type TaskEnqueuer interface {
	EnqueueMaterialize(ctx context.Context, userID uuid.UUID, date time.Time) error
	Close() error
}
