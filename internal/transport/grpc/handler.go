package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"habit-tracker/internal/domain/entity"
	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/service"
	servicepkg "habit-tracker/internal/service"
)

type HabitTrackerHandler struct {
	habits service.HabitService
	tasks  service.TaskService
	stats  service.StatsService
	log    zerolog.Logger
}

func NewHabitTrackerHandler(habits service.HabitService, tasks service.TaskService, stats service.StatsService, log zerolog.Logger) *HabitTrackerHandler {
	return &HabitTrackerHandler{habits: habits, tasks: tasks, stats: stats, log: log}
}

var _ HabitTrackerServer = (*HabitTrackerHandler)(nil)

func habitToMap(h *entity.Habit) map[string]interface{} {
	return map[string]interface{}{
		"id":          h.ID.String(),
		"user_id":     h.UserID.String(),
		"title":       h.Title,
		"time_of_day": h.TimeOfDay.String(),
	}
}

func taskToMap(t *entity.DailyTask) map[string]interface{} {
	return map[string]interface{}{
		"id":          t.ID.String(),
		"habit_id":    t.HabitID.String(),
		"habit_title": t.HabitTitle,
		"habit_time":  t.HabitTime.String(),
		"date":        t.Date.Format(entity.DateLayout),
		"is_done":     t.IsDone,
	}
}

func statsToMap(s entity.Stats) map[string]interface{} {
	return map[string]interface{}{
		"total":      s.Total,
		"completed":  s.Completed,
		"percentage": s.Percentage,
	}
}

func tasksToList(tasks []*entity.DailyTask) []interface{} {
	out := make([]interface{}, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToMap(t))
	}
	return out
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func uuidField(req *structpb.Struct, key string) (uuid.UUID, error) {
	v := stringField(req, key)
	if v == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s", key)
	}
	return id, nil
}

func dateField(req *structpb.Struct, key string) (time.Time, error) {
	v := stringField(req, key)
	if v == "" {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	d, err := servicepkg.ParseDate(v)
	if err != nil {
		return time.Time{}, toStatus(err)
	}
	return d, nil
}

func response(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

// toStatus maps domain errors to gRPC status codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domainerrors.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, domainerrors.ErrConstraintViolation), errors.Is(err, domainerrors.ErrUserExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domainerrors.ErrUnauthorized), errors.Is(err, domainerrors.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}

func (h *HabitTrackerHandler) ListHabits(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	habits, err := h.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	list := make([]interface{}, 0, len(habits))
	for _, habit := range habits {
		list = append(list, habitToMap(habit))
	}
	return response(map[string]interface{}{"habits": list})
}

func (h *HabitTrackerHandler) CreateHabit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	habit, err := h.habits.CreateHabit(ctx, userID, stringField(req, "title"), stringField(req, "time_of_day"))
	if err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]interface{}{"habit": habitToMap(habit)})
}

// MaterializeTasks creates the tasks for "date", or for "date".."end_date" when given
func (h *HabitTrackerHandler) MaterializeTasks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	date, err := dateField(req, "date")
	if err != nil {
		return nil, err
	}

	if stringField(req, "end_date") != "" {
		end, err := dateField(req, "end_date")
		if err != nil {
			return nil, err
		}
		n, err := h.tasks.MaterializeRange(ctx, userID, date, end)
		if err != nil {
			return nil, toStatus(err)
		}
		return response(map[string]interface{}{"count": n})
	}

	tasks, err := h.tasks.Materialize(ctx, userID, date)
	if err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]interface{}{
		"date":  date.Format(entity.DateLayout),
		"tasks": tasksToList(tasks),
	})
}

func (h *HabitTrackerHandler) ToggleTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	taskID, err := uuidField(req, "task_id")
	if err != nil {
		return nil, err
	}

	task, err := h.tasks.ToggleDone(ctx, taskID, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]interface{}{
		"is_done": task.IsDone,
		"task":    taskToMap(task),
	})
}

func (h *HabitTrackerHandler) GetStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	today, err := dateField(req, "today")
	if err != nil {
		return nil, err
	}

	summary, err := h.stats.Summary(ctx, userID, today)
	if err != nil {
		return nil, toStatus(err)
	}

	days := make([]interface{}, 0, len(summary.Last7Days))
	for _, d := range summary.Last7Days {
		m := statsToMap(d.Stats)
		m["date"] = d.Date.Format(entity.DateLayout)
		days = append(days, m)
	}
	return response(map[string]interface{}{
		"today":       statsToMap(summary.Today),
		"week":        statsToMap(summary.Week),
		"month":       statsToMap(summary.Month),
		"last_7_days": days,
	})
}
