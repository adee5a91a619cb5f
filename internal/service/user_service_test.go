package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainerrors "habit-tracker/internal/domain/errors"
	"habit-tracker/internal/domain/entity"
)

func TestRegisterProvisionsDefaultHabits(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := env.userService()
	habits := NewHabitService(env.habits)

	alice, err := users.Register(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	list, err := habits.ListHabits(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListHabits() error = %v", err)
	}

	want := []struct {
		title string
		at    string
	}{
		{"Wake up at a specific morning time", "07:00"},
		{"Running / Exercise", "08:00"},
		{"Working / Studying", "09:00"},
		{"Reading a book", "19:00"},
	}
	if len(list) != len(want) {
		t.Fatalf("ListHabits() = %d habits, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].Title != w.title || list[i].TimeOfDay.String() != w.at {
			t.Errorf("habit[%d] = %q at %s, want %q at %s", i, list[i].Title, list[i].TimeOfDay, w.title, w.at)
		}
	}

	existing := env.newUser(t, "bob")
	if _, err := users.Register(ctx, "carol", "correct horse"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if list, _ := habits.ListHabits(ctx, existing.ID); len(list) != 0 {
		t.Errorf("habits of user created without registration = %d, want 0", len(list))
	}
	if list, _ := habits.ListHabits(ctx, alice.ID); len(list) != 4 {
		t.Errorf("habits of alice after another registration = %d, want 4", len(list))
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := env.userService()

	if _, err := users.Register(ctx, "alice", "correct horse"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "blank username", username: "  ", password: "correct horse", wantErr: domainerrors.ErrInvalidInput},
		{name: "short password", username: "bob", password: "short", wantErr: domainerrors.ErrInvalidInput},
		{name: "taken", username: "alice", password: "correct horse", wantErr: domainerrors.ErrUserExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := users.Register(ctx, tt.username, tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterHookFailure(t *testing.T) {
	env := newTestEnv(t)
	failing := NewUserService(env.users, nil, nil, nil, zerolog.Nop(),
		WithUserCreatedHook(func(ctx context.Context, user *entity.User) error { return errors.New("seed failed") }),
		WithPasswordHasher(func(p string) (string, error) { return "hashed:" + p, nil }),
	)

	if _, err := failing.Register(context.Background(), "alice", "correct horse"); err == nil {
		t.Error("Register() error = nil, want hook error")
	}
	if _, err := env.users.GetByUsername(context.Background(), "alice"); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("GetByUsername() after failed registration error = %v, want ErrNotFound", err)
	}
}

func TestRegisterPartialProvisioningRolledBack(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// Seed two habits, then fail, leaving the user short of the defaults.
	var userID uuid.UUID
	partial := func(ctx context.Context, user *entity.User) error {
		userID = user.ID
		for _, d := range DefaultHabits[:2] {
			if err := env.habits.Create(ctx, entity.NewHabit(user.ID, d.Title, d.TimeOfDay)); err != nil {
				return err
			}
		}
		return errors.New("store went away")
	}
	users := NewUserService(env.users, nil, nil, nil, zerolog.Nop(),
		WithUserCreatedHook(partial),
		WithPasswordHasher(func(p string) (string, error) { return "hashed:" + p, nil }),
	)

	if _, err := users.Register(ctx, "alice", "correct horse"); err == nil {
		t.Fatal("Register() error = nil, want hook error")
	}
	if habits, err := env.habits.GetByUserID(ctx, userID); err != nil || len(habits) != 0 {
		t.Errorf("habits after rollback = %d (err = %v), want 0", len(habits), err)
	}

	// The username is free again and a clean registration gets all four.
	user, err := env.userService().Register(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Register() retry error = %v", err)
	}
	if habits, _ := env.habits.GetByUserID(ctx, user.ID); len(habits) != len(DefaultHabits) {
		t.Errorf("habits after retry = %d, want %d", len(habits), len(DefaultHabits))
	}
}

func TestLoginAndTokens(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	users := env.userService()

	alice, err := users.Register(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := users.Login(ctx, "alice", "wrong password"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Errorf("Login() wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := users.Login(ctx, "nobody", "correct horse"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Errorf("Login() unknown user error = %v, want ErrInvalidCredentials", err)
	}

	auth, err := users.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if auth.User.ID != alice.ID || auth.AccessToken == "" || !auth.ExpiresAt.After(time.Now()) {
		t.Errorf("Login() = %+v, want token for alice", auth)
	}

	userID, sessionID, err := users.ValidateToken(ctx, auth.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != alice.ID || sessionID != auth.SessionID {
		t.Errorf("ValidateToken() = (%v, %v), want (%v, %v)", userID, sessionID, alice.ID, auth.SessionID)
	}

	if err := users.Logout(ctx, sessionID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, _, err := users.ValidateToken(ctx, auth.AccessToken); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Errorf("ValidateToken() after logout error = %v, want ErrUnauthorized", err)
	}
	if _, _, err := users.ValidateToken(ctx, "garbage"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Errorf("ValidateToken(garbage) error = %v, want ErrUnauthorized", err)
	}
}
