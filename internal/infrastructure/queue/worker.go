package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"habit-tracker/internal/domain/service"
	servicepkg "habit-tracker/internal/service"
)

// Worker runs Asynq task handlers
type Worker struct {
	srv   *asynq.Server
	mux   *asynq.ServeMux
	tasks service.TaskService
	log   zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Start to run it.
func NewWorker(redisOpt asynq.RedisClientOpt, concurrency int, tasks service.TaskService, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		LogLevel:    asynq.WarnLevel,
	})
	w := &Worker{srv: srv, mux: asynq.NewServeMux(), tasks: tasks, log: log}
	w.mux.HandleFunc(TypeMaterializeTasks, w.HandleMaterialize)
	return w
}

// HandleMaterialize materializes one user's tasks for one date. Materialize is
// idempotent, so Asynq retries are safe.
func (w *Worker) HandleMaterialize(ctx context.Context, t *asynq.Task) error {
	var p materializePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("materialize task payload invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", p.UserID, asynq.SkipRetry)
	}
	date, err := servicepkg.ParseDate(p.Date)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	tasks, err := w.tasks.Materialize(ctx, userID, date)
	if err != nil {
		return err
	}

	w.log.Debug().Str("user_id", p.UserID).Str("date", p.Date).Int("tasks", len(tasks)).Msg("materialize task done")
	return nil
}

// Start runs the worker in the background
func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

// Shutdown stops the worker
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
