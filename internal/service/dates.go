package service

import (
	"fmt"
	"time"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
)

// ParseDate parses a YYYY-MM-DD date; malformed input is ErrInvalidInput
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, domainerrors.ErrInvalidInput)
	}
	return t, nil
}

// WeekStart returns the Monday on or before d
func WeekStart(d time.Time) time.Time {
	d = entity.Date(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// MonthStart returns the first day of d's month
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}
