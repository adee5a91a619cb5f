package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
	"habit-tracker/internal/domain/service"
)

type statsService struct {
	taskRepo repository.DailyTaskRepository
}

// NewStatsService creates a new statistics service
func NewStatsService(taskRepo repository.DailyTaskRepository) service.StatsService {
	return &statsService{taskRepo: taskRepo}
}

func (s *statsService) Stats(ctx context.Context, userID uuid.UUID, r entity.DateRange) (entity.Stats, error) {
	start, end := entity.Date(r.Start), entity.Date(r.End)
	if end.Before(start) {
		return entity.Stats{}, fmt.Errorf("start is after end: %w", domainerrors.ErrInvalidInput)
	}

	total, completed, err := s.taskRepo.CountByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return entity.Stats{}, err
	}

	return entity.NewStats(total, completed), nil
}

func (s *statsService) Today(ctx context.Context, userID uuid.UUID, today time.Time) (entity.Stats, error) {
	return s.Stats(ctx, userID, entity.SingleDay(today))
}

func (s *statsService) Week(ctx context.Context, userID uuid.UUID, today time.Time) (entity.Stats, error) {
	return s.Stats(ctx, userID, entity.DateRange{Start: WeekStart(today), End: today})
}

func (s *statsService) Month(ctx context.Context, userID uuid.UUID, today time.Time) (entity.Stats, error) {
	return s.Stats(ctx, userID, entity.DateRange{Start: MonthStart(today), End: today})
}

func (s *statsService) Last7Days(ctx context.Context, userID uuid.UUID, today time.Time) ([]entity.DayStats, error) {
	today = entity.Date(today)

	days := make([]entity.DayStats, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		stats, err := s.Stats(ctx, userID, entity.SingleDay(day))
		if err != nil {
			return nil, err
		}
		days = append(days, entity.DayStats{Date: day, Stats: stats})
	}

	return days, nil
}

func (s *statsService) Summary(ctx context.Context, userID uuid.UUID, today time.Time) (*entity.Summary, error) {
	todayStats, err := s.Today(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	week, err := s.Week(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	month, err := s.Month(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	days, err := s.Last7Days(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	for i := range days {
		days[i].Stats = days[i].Stats.Rounded()
	}

	return &entity.Summary{
		Today:     todayStats.Rounded(),
		Week:      week.Rounded(),
		Month:     month.Rounded(),
		Last7Days: days,
	}, nil
}
