package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
	"habit-tracker/internal/domain/service"
)

type taskService struct {
	userRepo  repository.UserRepository
	habitRepo repository.HabitRepository
	taskRepo  repository.DailyTaskRepository
	publisher service.EventPublisher
	log       zerolog.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	userRepo repository.UserRepository,
	habitRepo repository.HabitRepository,
	taskRepo repository.DailyTaskRepository,
	publisher service.EventPublisher,
	log zerolog.Logger,
) service.TaskService {
	return &taskService{
		userRepo:  userRepo,
		habitRepo: habitRepo,
		taskRepo:  taskRepo,
		publisher: publisher,
		log:       log.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) Materialize(ctx context.Context, userID uuid.UUID, date time.Time) ([]*entity.DailyTask, error) {
	date = entity.Date(date)

	habits, err := s.habitRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	tasks := make([]*entity.DailyTask, 0, len(habits))
	created := 0
	for _, habit := range habits {
		task, isNew, err := s.ensureTask(ctx, habit, date)
		if err != nil {
			return nil, err
		}
		if isNew {
			created++
		}
		tasks = append(tasks, task)
	}

	s.log.Debug().
		Str("user_id", userID.String()).
		Str("date", date.Format(entity.DateLayout)).
		Int("created", created).
		Int("existing", len(tasks)-created).
		Msg("tasks materialized")

	if created > 0 && s.publisher != nil {
		if err := s.publisher.PublishTasksMaterialized(ctx, userID, date, created); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to publish tasks materialized event")
		}
	}

	return tasks, nil
}

// ensureTask inserts the (habit, date) task or returns the one already stored.
// The unique constraint arbitrates concurrent callers.
func (s *taskService) ensureTask(ctx context.Context, habit *entity.Habit, date time.Time) (*entity.DailyTask, bool, error) {
	task := entity.NewDailyTask(habit, date)

	err := s.taskRepo.Create(ctx, task)
	if err == nil {
		return task, true, nil
	}
	if !errors.Is(err, domainerrors.ErrConstraintViolation) {
		return nil, false, fmt.Errorf("failed to materialize %q on %s: %w", habit.Title, date.Format(entity.DateLayout), err)
	}

	existing, err := s.taskRepo.GetByHabitAndDate(ctx, habit.ID, date)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing task for %q on %s: %w", habit.Title, date.Format(entity.DateLayout), err)
	}
	return existing, false, nil
}

func (s *taskService) MaterializeRange(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error) {
	r := entity.DateRange{Start: entity.Date(start), End: entity.Date(end)}
	if r.End.Before(r.Start) {
		return 0, fmt.Errorf("start %s is after end %s: %w",
			r.Start.Format(entity.DateLayout), r.End.Format(entity.DateLayout), domainerrors.ErrInvalidInput)
	}

	total := 0
	for _, day := range r.Days() {
		tasks, err := s.Materialize(ctx, userID, day)
		if err != nil {
			return total, fmt.Errorf("day %s: %w", day.Format(entity.DateLayout), err)
		}
		total += len(tasks)
	}

	return total, nil
}

func (s *taskService) GenerateForAllUsers(ctx context.Context, date time.Time, daysBack int) (*service.GenerationReport, error) {
	if daysBack < 0 {
		return nil, fmt.Errorf("days back must not be negative: %w", domainerrors.ErrInvalidInput)
	}
	date = entity.Date(date)

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	report := &service.GenerationReport{Date: date, Users: len(users)}
	var errs []error
	for _, user := range users {
		for i := 0; i <= daysBack; i++ {
			tasks, err := s.Materialize(ctx, user.ID, date.AddDate(0, 0, -i))
			if err != nil {
				errs = append(errs, fmt.Errorf("user %s: %w", user.Username, err))
				break
			}
			report.Tasks += len(tasks)
		}
	}

	s.log.Info().
		Str("date", date.Format(entity.DateLayout)).
		Int("users", report.Users).
		Int("tasks", report.Tasks).
		Int("failed", len(errs)).
		Msg("daily tasks generated")

	return report, errors.Join(errs...)
}

func (s *taskService) ToggleDone(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error) {
	return s.taskRepo.ToggleDone(ctx, taskID, userID)
}

func (s *taskService) GetTask(ctx context.Context, taskID, userID uuid.UUID) (*entity.DailyTask, error) {
	return s.taskRepo.GetByIDAndUserID(ctx, taskID, userID)
}

func (s *taskService) ListByDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]*entity.DailyTask, error) {
	return s.taskRepo.GetByUserAndDateRange(ctx, userID, date, date)
}

func (s *taskService) ListByRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.DailyTask, error) {
	if entity.Date(end).Before(entity.Date(start)) {
		return nil, fmt.Errorf("start is after end: %w", domainerrors.ErrInvalidInput)
	}
	return s.taskRepo.GetByUserAndDateRange(ctx, userID, start, end)
}

func (s *taskService) DeleteTask(ctx context.Context, taskID, userID uuid.UUID) error {
	return s.taskRepo.Delete(ctx, taskID, userID)
}

func (s *taskService) Dashboard(ctx context.Context, userID uuid.UUID, today time.Time) (*service.Dashboard, error) {
	today = entity.Date(today)

	tasks, err := s.taskRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dash := &service.Dashboard{Today: today, TodayTasks: []*entity.DailyTask{}}
	for _, task := range tasks {
		if task.Date.Equal(today) {
			dash.TodayTasks = append(dash.TodayTasks, task)
		}
		n := len(dash.Days)
		if n == 0 || !dash.Days[n-1].Date.Equal(task.Date) {
			dash.Days = append(dash.Days, entity.DayGroup{Date: task.Date})
			n++
		}
		dash.Days[n-1].Tasks = append(dash.Days[n-1].Tasks, task)
	}

	// Stored order is ascending; the dashboard shows the newest day first.
	for i, j := 0, len(dash.Days)-1; i < j; i, j = i+1, j-1 {
		dash.Days[i], dash.Days[j] = dash.Days[j], dash.Days[i]
	}

	return dash, nil
}
