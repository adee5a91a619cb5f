package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
	"habit-tracker/internal/domain/service"
)

// MaxTitleLength bounds habit titles
const MaxTitleLength = 200

type habitService struct {
	habitRepo repository.HabitRepository
}

// NewHabitService creates a new habit service
func NewHabitService(habitRepo repository.HabitRepository) service.HabitService {
	return &habitService{habitRepo: habitRepo}
}

func (s *habitService) CreateHabit(ctx context.Context, userID uuid.UUID, title, timeOfDay string) (*entity.Habit, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	habit := entity.NewHabit(userID, title, parseTimeOr(timeOfDay, entity.DefaultTimeOfDay))
	if err := s.habitRepo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

func (s *habitService) GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*entity.Habit, error) {
	return s.habitRepo.GetByIDAndUserID(ctx, habitID, userID)
}

func (s *habitService) ListHabits(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error) {
	return s.habitRepo.GetByUserID(ctx, userID)
}

func (s *habitService) UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, title, timeOfDay string) (*entity.Habit, error) {
	habit, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	title, err = normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	habit.Title = title
	habit.TimeOfDay = parseTimeOr(timeOfDay, habit.TimeOfDay)

	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	return habit, nil
}

func (s *habitService) DeleteHabit(ctx context.Context, userID, habitID uuid.UUID) error {
	return s.habitRepo.Delete(ctx, habitID, userID)
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title is required: %w", domainerrors.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", fmt.Errorf("title longer than %d characters: %w", MaxTitleLength, domainerrors.ErrInvalidInput)
	}
	return title, nil
}

// parseTimeOr falls back when the time is missing or not HH:MM
func parseTimeOr(s string, fallback entity.TimeOfDay) entity.TimeOfDay {
	t, err := entity.ParseTimeOfDay(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return t
}
