package service

import (
	"context"
	"time"

	"habit-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// StatsService computes completion statistics. Every view is relative to the
// caller-supplied today, never to the wall clock.
type StatsService interface {
	Stats(ctx context.Context, userID uuid.UUID, r entity.DateRange) (entity.Stats, error)
	Today(ctx context.Context, userID uuid.UUID, today time.Time) (entity.Stats, error)

	// Week covers the Monday on or before today through today
	Week(ctx context.Context, userID uuid.UUID, today time.Time) (entity.Stats, error)

	// Month covers the first day of today's month through today
	Month(ctx context.Context, userID uuid.UUID, today time.Time) (entity.Stats, error)

	// Last7Days returns single-day stats for today-6 .. today, oldest first
	Last7Days(ctx context.Context, userID uuid.UUID, today time.Time) ([]entity.DayStats, error)

	// Summary bundles all views with percentages rounded to one decimal
	Summary(ctx context.Context, userID uuid.UUID, today time.Time) (*entity.Summary, error)
}
