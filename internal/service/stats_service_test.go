package service

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tasks := env.taskService()
	stats := NewStatsService(env.tasks)

	user := env.newUser(t, "alice")
	for i, title := range []string{"A", "B", "C", "D"} {
		env.newHabit(t, user, title, 8+i, 0)
	}
	date := day(2024, time.January, 15)

	empty, err := stats.Today(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if empty != (entity.Stats{}) {
		t.Errorf("Today() with no tasks = %+v, want zero", empty)
	}

	created, err := tasks.Materialize(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	for _, task := range created[:3] {
		if _, err := tasks.ToggleDone(ctx, task.ID, user.ID); err != nil {
			t.Fatalf("ToggleDone() error = %v", err)
		}
	}

	got, err := stats.Today(ctx, user.ID, date)
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if want := (entity.Stats{Total: 4, Completed: 3, Percentage: 75}); got != want {
		t.Errorf("Today() = %+v, want %+v", got, want)
	}

	other := env.newUser(t, "bob")
	if got, _ := stats.Today(ctx, other.ID, date); got.Total != 0 {
		t.Errorf("Today() for other user total = %d, want 0", got.Total)
	}

	_, err = stats.Stats(ctx, user.ID, entity.DateRange{Start: date, End: date.AddDate(0, 0, -1)})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Errorf("Stats() reversed range error = %v, want ErrInvalidInput", err)
	}
}

func TestStatsViews(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tasks := env.taskService()
	stats := NewStatsService(env.tasks)

	user := env.newUser(t, "alice")
	env.newHabit(t, user, "A", 8, 0)
	env.newHabit(t, user, "B", 9, 0)

	// Sunday 14th through Wednesday 17th
	if _, err := tasks.MaterializeRange(ctx, user.ID, day(2024, time.January, 14), day(2024, time.January, 17)); err != nil {
		t.Fatalf("MaterializeRange() error = %v", err)
	}
	complete := func(d int, titles ...string) {
		list, err := tasks.ListByDate(ctx, user.ID, day(2024, time.January, d))
		if err != nil {
			t.Fatalf("ListByDate() error = %v", err)
		}
		for _, title := range titles {
			if _, err := tasks.ToggleDone(ctx, findTask(t, list, title).ID, user.ID); err != nil {
				t.Fatalf("ToggleDone() error = %v", err)
			}
		}
	}
	complete(14, "A", "B")
	complete(15, "A", "B")
	complete(17, "A")

	today := day(2024, time.January, 17)

	tests := []struct {
		name string
		view func() (entity.Stats, error)
		want entity.Stats
	}{
		{name: "today", view: func() (entity.Stats, error) { return stats.Today(ctx, user.ID, today) }, want: entity.NewStats(2, 1)},
		{name: "week starts monday", view: func() (entity.Stats, error) { return stats.Week(ctx, user.ID, today) }, want: entity.NewStats(6, 3)},
		{name: "month to date", view: func() (entity.Stats, error) { return stats.Month(ctx, user.ID, today) }, want: entity.NewStats(8, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.view()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	days, err := stats.Last7Days(ctx, user.ID, today)
	if err != nil {
		t.Fatalf("Last7Days() error = %v", err)
	}
	wantPct := []float64{0, 0, 0, 100, 100, 0, 50}
	if len(days) != len(wantPct) {
		t.Fatalf("Last7Days() = %d days, want 7", len(days))
	}
	for i, d := range days {
		if want := day(2024, time.January, 11+i); !d.Date.Equal(want) {
			t.Errorf("Last7Days()[%d].Date = %v, want %v", i, d.Date, want)
		}
		if d.Percentage != wantPct[i] {
			t.Errorf("Last7Days()[%d].Percentage = %v, want %v", i, d.Percentage, wantPct[i])
		}
	}

	summary, err := stats.Summary(ctx, user.ID, today)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Month.Percentage != 62.5 || summary.Week.Percentage != 50 || len(summary.Last7Days) != 7 {
		t.Errorf("Summary() = %+v, want month 62.5, week 50, 7 days", summary)
	}
}

func TestStatsRounded(t *testing.T) {
	tests := []struct {
		total, completed int
		want             float64
	}{
		{total: 0, completed: 0, want: 0},
		{total: 3, completed: 2, want: 66.7},
		{total: 3, completed: 1, want: 33.3},
		{total: 8, completed: 8, want: 100},
	}
	for _, tt := range tests {
		if got := entity.NewStats(tt.total, tt.completed).Rounded().Percentage; got != tt.want {
			t.Errorf("NewStats(%d, %d).Rounded() = %v, want %v", tt.total, tt.completed, got, tt.want)
		}
	}
}

func TestStatsRangeComposition(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	tasks := env.taskService()
	stats := NewStatsService(env.tasks)

	user := env.newUser(t, "alice")
	env.newHabit(t, user, "A", 8, 0)
	env.newHabit(t, user, "B", 9, 0)
	if _, err := tasks.MaterializeRange(ctx, user.ID, day(2024, time.January, 10), day(2024, time.January, 12)); err != nil {
		t.Fatalf("MaterializeRange() error = %v", err)
	}
	// Later days carry a third habit, so daily totals differ.
	env.newHabit(t, user, "C", 10, 0)
	if _, err := tasks.MaterializeRange(ctx, user.ID, day(2024, time.January, 13), day(2024, time.January, 16)); err != nil {
		t.Fatalf("MaterializeRange() error = %v", err)
	}
	all, err := tasks.ListByRange(ctx, user.ID, day(2024, time.January, 10), day(2024, time.January, 16))
	if err != nil {
		t.Fatalf("ListByRange() error = %v", err)
	}
	for i, task := range all {
		if i%3 == 0 {
			if _, err := tasks.ToggleDone(ctx, task.ID, user.ID); err != nil {
				t.Fatalf("ToggleDone() error = %v", err)
			}
		}
	}

	// The 9th and 17th have no tasks at all.
	first, last := day(2024, time.January, 9), day(2024, time.January, 17)
	for start := first; !start.After(last); start = start.AddDate(0, 0, 1) {
		for end := start; !end.After(last); end = end.AddDate(0, 0, 1) {
			r := entity.DateRange{Start: start, End: end}
			got, err := stats.Stats(ctx, user.ID, r)
			if err != nil {
				t.Fatalf("Stats(%v) error = %v", r, err)
			}

			var total, completed int
			for _, d := range r.Days() {
				s, err := stats.Stats(ctx, user.ID, entity.SingleDay(d))
				if err != nil {
					t.Fatalf("Stats(%v) error = %v", d, err)
				}
				total += s.Total
				completed += s.Completed
			}

			if got.Total != total || got.Completed != completed {
				t.Errorf("Stats(%s..%s) = %d/%d, want sum of days %d/%d",
					start.Format(entity.DateLayout), end.Format(entity.DateLayout), got.Total, got.Completed, total, completed)
			}
		}
	}
}
