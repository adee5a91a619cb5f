// Package repotest holds the behaviour shared by every repository backend.
package repotest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
)

// Repos is one backend's set of repositories over a freshly migrated store
type Repos struct {
	Users  repository.UserRepository
	Habits repository.HabitRepository
	Tasks  repository.DailyTaskRepository
}

// Day returns midnight UTC of the given date
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewUser persists a user with the given name
func NewUser(t *testing.T, repos Repos, username string) *entity.User {
	t.Helper()
	user := &entity.User{ID: uuid.New(), Username: username, PasswordHash: "x", CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// NewHabit persists a habit for user
func NewHabit(t *testing.T, repos Repos, user *entity.User, title string, at entity.TimeOfDay) *entity.Habit {
	t.Helper()
	habit := entity.NewHabit(user.ID, title, at)
	if err := repos.Habits.Create(context.Background(), habit); err != nil {
		t.Fatalf("create habit %s: %v", title, err)
	}
	return habit
}

// Run exercises a backend; setup must return repositories over an empty schema
func Run(t *testing.T, setup func(t *testing.T) Repos) {
	t.Run("Users", func(t *testing.T) { testUsers(t, setup(t)) })
	t.Run("HabitOrderingAndScope", func(t *testing.T) { testHabitOrderingAndScope(t, setup(t)) })
	t.Run("TaskUniqueness", func(t *testing.T) { testTaskUniqueness(t, setup(t)) })
	t.Run("ConcurrentCreate", func(t *testing.T) { testConcurrentCreate(t, setup(t)) })
	t.Run("Cascade", func(t *testing.T) { testCascade(t, setup(t)) })
	t.Run("ToggleAndDelete", func(t *testing.T) { testToggleAndDelete(t, setup(t)) })
	t.Run("RangeAndCount", func(t *testing.T) { testRangeAndCount(t, setup(t)) })
}

func testUsers(t *testing.T, repos Repos) {
	ctx := context.Background()
	alice := NewUser(t, repos, "alice")
	NewUser(t, repos, "bob")

	dup := &entity.User{ID: uuid.New(), Username: "alice", PasswordHash: "y", CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(ctx, dup); !errors.Is(err, domainerrors.ErrUserExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrUserExists", err)
	}

	got, err := repos.Users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != alice.ID {
		t.Errorf("GetByUsername().ID = %v, want %v", got.ID, alice.ID)
	}

	if _, err := repos.Users.GetByID(ctx, uuid.New()); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetByID(unknown) error = %v, want ErrNotFound", err)
	}

	users, err := repos.Users.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].Username != "bob" {
		t.Errorf("List() = %v, want [alice bob]", users)
	}

	habit := NewHabit(t, repos, alice, "Run", entity.NewTimeOfDay(8, 0))
	if err := repos.Tasks.Create(ctx, entity.NewDailyTask(habit, Day(2024, time.January, 15))); err != nil {
		t.Fatalf("Create(task) error = %v", err)
	}
	if err := repos.Users.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repos.Users.GetByID(ctx, alice.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetByID(deleted) error = %v, want ErrNotFound", err)
	}
	if habits, _ := repos.Habits.GetByUserID(ctx, alice.ID); len(habits) != 0 {
		t.Errorf("habits after user delete = %d, want 0", len(habits))
	}
	if tasks, _ := repos.Tasks.GetByUserID(ctx, alice.ID); len(tasks) != 0 {
		t.Errorf("tasks after user delete = %d, want 0", len(tasks))
	}
	if err := repos.Users.Delete(ctx, alice.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Delete(deleted) error = %v, want ErrNotFound", err)
	}
}

func testHabitOrderingAndScope(t *testing.T, repos Repos) {
	ctx := context.Background()
	alice := NewUser(t, repos, "alice")
	bob := NewUser(t, repos, "bob")

	NewHabit(t, repos, alice, "Read", entity.NewTimeOfDay(19, 0))
	NewHabit(t, repos, alice, "Run", entity.NewTimeOfDay(8, 0))
	NewHabit(t, repos, alice, "Meditate", entity.NewTimeOfDay(8, 0))
	bobs := NewHabit(t, repos, bob, "Swim", entity.NewTimeOfDay(6, 0))

	habits, err := repos.Habits.GetByUserID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	want := []string{"Meditate", "Run", "Read"}
	if len(habits) != len(want) {
		t.Fatalf("GetByUserID() returned %d habits, want %d", len(habits), len(want))
	}
	for i, h := range habits {
		if h.Title != want[i] {
			t.Errorf("habit[%d] = %q, want %q", i, h.Title, want[i])
		}
	}

	if _, err := repos.Habits.GetByIDAndUserID(ctx, bobs.ID, alice.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetByIDAndUserID(other owner) error = %v, want ErrNotFound", err)
	}

	bobs.UserID = alice.ID
	bobs.Title = "Hijacked"
	if err := repos.Habits.Update(ctx, bobs); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Update(other owner) error = %v, want ErrNotFound", err)
	}
	if err := repos.Habits.Delete(ctx, bobs.ID, alice.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Delete(other owner) error = %v, want ErrNotFound", err)
	}

	got, err := repos.Habits.GetByIDAndUserID(ctx, bobs.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetByIDAndUserID() error = %v", err)
	}
	if got.Title != "Swim" || got.TimeOfDay != entity.NewTimeOfDay(6, 0) {
		t.Errorf("habit = %q@%s, want Swim@06:00", got.Title, got.TimeOfDay)
	}
}

func testTaskUniqueness(t *testing.T, repos Repos) {
	ctx := context.Background()
	alice := NewUser(t, repos, "alice")
	habit := NewHabit(t, repos, alice, "Run", entity.NewTimeOfDay(8, 0))
	day := Day(2024, 1, 15)

	first := entity.NewDailyTask(habit, day)
	if err := repos.Tasks.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second := entity.NewDailyTask(habit, day)
	if err := repos.Tasks.Create(ctx, second); !errors.Is(err, domainerrors.ErrConstraintViolation) {
		t.Fatalf("Create(duplicate) error = %v, want ErrConstraintViolation", err)
	}

	got, err := repos.Tasks.GetByHabitAndDate(ctx, habit.ID, day)
	if err != nil {
		t.Fatalf("GetByHabitAndDate() error = %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("GetByHabitAndDate().ID = %v, want first task %v", got.ID, first.ID)
	}
	if got.HabitTitle != "Run" || got.HabitTime != entity.NewTimeOfDay(8, 0) {
		t.Errorf("joined habit = %q@%s, want Run@08:00", got.HabitTitle, got.HabitTime)
	}
	if !got.Date.Equal(day) {
		t.Errorf("Date = %v, want %v", got.Date, day)
	}
}

func testConcurrentCreate(t *testing.T, repos Repos) {
	ctx := context.Background()
	alice := NewUser(t, repos, "alice")
	habit := NewHabit(t, repos, alice, "Run", entity.NewTimeOfDay(8, 0))
	day := Day(2024, 2, 1)

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repos.Tasks.Create(ctx, entity.NewDailyTask(habit, day))
			switch {
			case err == nil:
				mu.Lock()
				created++
				mu.Unlock()
			case errors.Is(err, domainerrors.ErrConstraintViolation):
			default:
				t.Errorf("Create() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("created = %d, want exactly 1", created)
	}
	total, _, err := repos.Tasks.CountByUserAndDateRange(ctx, alice.ID, day, day)
	if err != nil {
		t.Fatalf("CountByUserAndDateRange() error = %v", err)
	}
	if total != 1 {
		t.Errorf("stored tasks = %d, want 1", total)
	}
}

func testCascade(t *testing.T, repos Repos) {
	ctx := context.Background()
	alice := NewUser(t, repos, "alice")
	run := NewHabit(t, repos, alice, "Run", entity.NewTimeOfDay(8, 0))
	read := NewHabit(t, repos, alice, "Read", entity.NewTimeOfDay(19, 0))

	for _, d := range []time.Time{Day(2024, 1, 1), Day(2024, 1, 2)} {
		for _, h := range []*entity.Habit{run, read} {
			if err := repos.Tasks.Create(ctx, entity.NewDailyTask(h, d)); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}
	}

	if err := repos.Habits.Delete(ctx, run.ID, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	tasks, err := repos.Tasks.GetByUserID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks after cascade = %d, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.HabitID != read.ID {
			t.Errorf("task %v references %v, want only %v", task.ID, task.HabitID, read.ID)
		}
	}
}

func testToggleAndDelete(t *testing.T, repos Repos) {
	ctx := context.Background()
	alice := NewUser(t, repos, "alice")
	bob := NewUser(t, repos, "bob")
	habit := NewHabit(t, repos, alice, "Run", entity.NewTimeOfDay(8, 0))
	task := entity.NewDailyTask(habit, Day(2024, 1, 15))
	if err := repos.Tasks.Create(ctx, task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	toggled, err := repos.Tasks.ToggleDone(ctx, task.ID, alice.ID)
	if err != nil {
		t.Fatalf("ToggleDone() error = %v", err)
	}
	if !toggled.IsDone {
		t.Errorf("ToggleDone().IsDone = false, want true")
	}
	toggled, err = repos.Tasks.ToggleDone(ctx, task.ID, alice.ID)
	if err != nil {
		t.Fatalf("ToggleDone() error = %v", err)
	}
	if toggled.IsDone {
		t.Errorf("second ToggleDone().IsDone = true, want false")
	}

	if _, err := repos.Tasks.ToggleDone(ctx, task.ID, bob.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("ToggleDone(other owner) error = %v, want ErrNotFound", err)
	}
	if err := repos.Tasks.Delete(ctx, task.ID, bob.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("Delete(other owner) error = %v, want ErrNotFound", err)
	}
	if err := repos.Tasks.Delete(ctx, task.ID, alice.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repos.Tasks.GetByIDAndUserID(ctx, task.ID, alice.ID); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetByIDAndUserID(deleted) error = %v, want ErrNotFound", err)
	}
	if _, err := repos.Habits.GetByIDAndUserID(ctx, habit.ID, alice.ID); err != nil {
		t.Errorf("habit gone after task delete: %v", err)
	}
}

func testRangeAndCount(t *testing.T, repos Repos) {
	ctx := context.Background()
	alice := NewUser(t, repos, "alice")
	bob := NewUser(t, repos, "bob")
	read := NewHabit(t, repos, alice, "Read", entity.NewTimeOfDay(19, 0))
	run := NewHabit(t, repos, alice, "Run", entity.NewTimeOfDay(8, 0))
	swim := NewHabit(t, repos, bob, "Swim", entity.NewTimeOfDay(6, 0))

	for d := 1; d <= 5; d++ {
		for _, h := range []*entity.Habit{read, run, swim} {
			task := entity.NewDailyTask(h, Day(2024, 3, d))
			task.IsDone = h == run
			if err := repos.Tasks.Create(ctx, task); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}
	}

	tasks, err := repos.Tasks.GetByUserAndDateRange(ctx, alice.ID, Day(2024, 3, 2), Day(2024, 3, 3))
	if err != nil {
		t.Fatalf("GetByUserAndDateRange() error = %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("GetByUserAndDateRange() returned %d tasks, want 4", len(tasks))
	}
	wantOrder := []struct {
		day   int
		title string
	}{{2, "Run"}, {2, "Read"}, {3, "Run"}, {3, "Read"}}
	for i, w := range wantOrder {
		if !tasks[i].Date.Equal(Day(2024, 3, w.day)) || tasks[i].HabitTitle != w.title {
			t.Errorf("task[%d] = %s %s, want 2024-03-%02d %s", i, tasks[i].Date.Format(entity.DateLayout), tasks[i].HabitTitle, w.day, w.title)
		}
	}

	total, completed, err := repos.Tasks.CountByUserAndDateRange(ctx, alice.ID, Day(2024, 3, 1), Day(2024, 3, 5))
	if err != nil {
		t.Fatalf("CountByUserAndDateRange() error = %v", err)
	}
	if total != 10 || completed != 5 {
		t.Errorf("CountByUserAndDateRange() = (%d, %d), want (10, 5)", total, completed)
	}

	total, completed, err = repos.Tasks.CountByUserAndDateRange(ctx, alice.ID, Day(2024, 4, 1), Day(2024, 4, 30))
	if err != nil {
		t.Fatalf("CountByUserAndDateRange() error = %v", err)
	}
	if total != 0 || completed != 0 {
		t.Errorf("CountByUserAndDateRange(empty) = (%d, %d), want (0, 0)", total, completed)
	}
}
