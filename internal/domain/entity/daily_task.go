package entity

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// DailyTask is one calendar day's instance of a habit
type DailyTask struct {
	ID        uuid.UUID
	HabitID   uuid.UUID
	UserID    uuid.UUID // always equal to the habit's owner
	Date      time.Time
	IsDone    bool
	CreatedAt time.Time

	// Populated on reads that join the parent habit
	HabitTitle string
	HabitTime  TimeOfDay
}

// NewDailyTask creates an open task for habit on date
func NewDailyTask(habit *Habit, date time.Time) *DailyTask {
	return &DailyTask{
		ID:         uuid.New(),
		HabitID:    habit.ID,
		UserID:     habit.UserID,
		Date:       Date(date),
		IsDone:     false,
		CreatedAt:  time.Now().UTC(),
		HabitTitle: habit.Title,
		HabitTime:  habit.TimeOfDay,
	}
}

// Date truncates t to midnight UTC of its calendar day
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayGroup holds the tasks of a single date
type DayGroup struct {
	Date  time.Time
	Tasks []*DailyTask
}
