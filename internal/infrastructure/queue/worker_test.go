package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/service"
)

type fakeTaskService struct {
	service.TaskService
	calls []time.Time
	users []uuid.UUID
	err   error
}

func (f *fakeTaskService) Materialize(ctx context.Context, userID uuid.UUID, date time.Time) ([]*entity.DailyTask, error) {
	f.calls = append(f.calls, date)
	f.users = append(f.users, userID)
	return nil, f.err
}

func TestHandleMaterialize(t *testing.T) {
	tasks := &fakeTaskService{}
	w := &Worker{tasks: tasks, log: zerolog.Nop()}
	userID := uuid.New()

	task, opts, err := NewMaterializeTask(userID, time.Date(2024, 1, 15, 18, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewMaterializeTask() error = %v", err)
	}
	if len(opts) == 0 {
		t.Error("NewMaterializeTask() returned no options, want uniqueness and retry options")
	}

	if err := w.HandleMaterialize(context.Background(), task); err != nil {
		t.Fatalf("HandleMaterialize() error = %v", err)
	}
	if len(tasks.calls) != 1 {
		t.Fatalf("Materialize calls = %d, want 1", len(tasks.calls))
	}
	if want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC); !tasks.calls[0].Equal(want) {
		t.Errorf("Materialize date = %v, want %v", tasks.calls[0], want)
	}
	if tasks.users[0] != userID {
		t.Errorf("Materialize user = %v, want %v", tasks.users[0], userID)
	}
}

func TestHandleMaterializeErrors(t *testing.T) {
	storeDown := errors.New("store unavailable")

	tests := []struct {
		name      string
		payload   string
		err       error
		skipRetry bool
	}{
		{name: "bad json", payload: `{`, skipRetry: true},
		{name: "bad user", payload: `{"user_id":"nope","date":"2024-01-15"}`, skipRetry: true},
		{name: "bad date", payload: `{"user_id":"` + uuid.NewString() + `","date":"15/01/2024"}`, skipRetry: true},
		{name: "store error retried", payload: `{"user_id":"` + uuid.NewString() + `","date":"2024-01-15"}`, err: storeDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Worker{tasks: &fakeTaskService{err: tt.err}, log: zerolog.Nop()}
			err := w.HandleMaterialize(context.Background(), asynq.NewTask(TypeMaterializeTasks, []byte(tt.payload)))
			if err == nil {
				t.Fatal("HandleMaterialize() error = nil, want error")
			}
			if got := errors.Is(err, asynq.SkipRetry); got != tt.skipRetry {
				t.Errorf("errors.Is(err, SkipRetry) = %v, want %v (err = %v)", got, tt.skipRetry, err)
			}
		})
	}
}

func TestInlineEnqueuer(t *testing.T) {
	tasks := &fakeTaskService{}
	q := NewInlineEnqueuer(tasks)
	if err := q.EnqueueMaterialize(context.Background(), uuid.New(), time.Now()); err != nil {
		t.Fatalf("EnqueueMaterialize() error = %v", err)
	}
	if len(tasks.calls) != 1 {
		t.Errorf("Materialize calls = %d, want 1", len(tasks.calls))
	}
}
