package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeOfDay is used when a habit is created without a usable time
var DefaultTimeOfDay = TimeOfDay(7 * 60)

// TimeOfDay is a wall-clock time stored as minutes since midnight
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hour and minute
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses an "HH:MM" string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

// Hour returns the hour component
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute component
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// String formats the time as "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Habit represents a recurring intention with a preferred time of day
type Habit struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	TimeOfDay TimeOfDay
	CreatedAt time.Time
}

// NewHabit creates a habit owned by userID
func NewHabit(userID uuid.UUID, title string, at TimeOfDay) *Habit {
	return &Habit{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		TimeOfDay: at,
		CreatedAt: time.Now().UTC(),
	}
}
