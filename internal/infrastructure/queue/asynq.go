package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/service"
)

const TypeMaterializeTasks = "tasks:materialize"

// materializePayload is the JSON body of a TypeMaterializeTasks task
type materializePayload struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

// UniqueTTL is how long an enqueued (user, date) job blocks an identical one.
// Once it expires, or the job finishes, the pair can be enqueued again.
const UniqueTTL = 10 * time.Minute

type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// TaskEnqueuer enqueues materialization jobs on Asynq
type TaskEnqueuer struct {
	client taskClient
	log    zerolog.Logger
}

// NewAsynqEnqueuer creates an enqueuer backed by Redis
func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

// NewMaterializeTask builds the task for one user and date. Only an identical
// job that is still pending or running within UniqueTTL collapses a new one.
func NewMaterializeTask(userID uuid.UUID, date time.Time) (*asynq.Task, []asynq.Option, error) {
	day := entity.Date(date).Format(entity.DateLayout)
	payload, err := json.Marshal(materializePayload{UserID: userID.String(), Date: day})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.Unique(UniqueTTL),
		asynq.MaxRetry(5),
	}
	return asynq.NewTask(TypeMaterializeTasks, payload), opts, nil
}

func (q *TaskEnqueuer) EnqueueMaterialize(ctx context.Context, userID uuid.UUID, date time.Time) error {
	task, opts, err := NewMaterializeTask(userID, date)
	if err != nil {
		return err
	}

	_, err = q.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		// The queued job materializes the same pair.
		q.log.Info().
			Str("user_id", userID.String()).
			Str("date", entity.Date(date).Format(entity.DateLayout)).
			Msg("materialize already queued")
		return nil
	}
	if err != nil {
		q.log.Warn().Err(err).Str("user_id", userID.String()).Msg("enqueue materialize failed")
		return fmt.Errorf("failed to enqueue materialize: %w", err)
	}
	return nil
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

var _ service.TaskEnqueuer = (*TaskEnqueuer)(nil)
