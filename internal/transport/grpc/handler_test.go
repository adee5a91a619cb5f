package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
	"golang.org/x/crypto/bcrypt"

	"habit-tracker/internal/config"
	domainservice "habit-tracker/internal/domain/service"
	"habit-tracker/internal/infrastructure/db"
	"habit-tracker/internal/infrastructure/memory"
	"habit-tracker/internal/infrastructure/sqlite"
	"habit-tracker/internal/service"
	"habit-tracker/pkg/hash"
	"habit-tracker/pkg/jwt"
)

type testEnv struct {
	conn  *grpc.ClientConn
	users domainservice.UserService
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "habits.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	if _, err := db.NewSQLiteRunner(sqlDB, zerolog.Nop()).Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	userRepo := sqlite.NewUserRepository(sqlDB)
	habitRepo := sqlite.NewHabitRepository(sqlDB)
	taskRepo := sqlite.NewDailyTaskRepository(sqlDB)

	users := service.NewUserService(
		userRepo,
		memory.NewSessionStorage(),
		jwt.NewTokenManager("test-secret", time.Hour, "habit-tracker"),
		nil,
		zerolog.Nop(),
		service.WithPasswordHasher(func(p string) (string, error) { return hash.HashPasswordWithCost(p, bcrypt.MinCost) }),
	)

	handler := NewHabitTrackerHandler(
		service.NewHabitService(habitRepo),
		service.NewTaskService(userRepo, habitRepo, taskRepo, nil, zerolog.Nop()),
		service.NewStatsService(taskRepo),
		zerolog.Nop(),
	)
	srv := NewServer(handler, users, &config.GRPCConfig{}, zerolog.Nop())

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return &testEnv{conn: conn, users: users}
}

// login registers username and returns its access token
func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := e.users.Register(ctx, username, "correct horse"); err != nil {
		t.Fatalf("Register(%s) error = %v", username, err)
	}
	auth, err := e.users.Login(ctx, username, "correct horse")
	if err != nil {
		t.Fatalf("Login(%s) error = %v", username, err)
	}
	return auth.AccessToken
}

func (e *testEnv) call(t *testing.T, token, method string, req map[string]interface{}) (*structpb.Struct, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	if err != nil {
		t.Fatalf("NewStruct() error = %v", err)
	}
	ctx := context.Background()
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	out := new(structpb.Struct)
	err = e.conn.Invoke(ctx, FullMethod(method), in, out)
	return out, err
}

func TestHabitTrackerFlow(t *testing.T) {
	env := setup(t)
	token := env.login(t, "alice")

	// Registration seeds the default habits; start from an empty list.
	out, err := env.call(t, token, "ListHabits", map[string]interface{}{})
	if err != nil {
		t.Fatalf("ListHabits() error = %v", err)
	}
	if n := len(out.Fields["habits"].GetListValue().GetValues()); n != 4 {
		t.Fatalf("ListHabits() = %d habits, want 4 defaults", n)
	}

	for _, h := range []map[string]interface{}{
		{"title": "Run", "time_of_day": "08:00"},
		{"title": "Read", "time_of_day": "not a time"},
	} {
		if _, err := env.call(t, token, "CreateHabit", h); err != nil {
			t.Fatalf("CreateHabit() error = %v", err)
		}
	}

	out, err = env.call(t, token, "ListHabits", map[string]interface{}{})
	if err != nil {
		t.Fatalf("ListHabits() error = %v", err)
	}
	habits := out.Fields["habits"].GetListValue().GetValues()
	if len(habits) != 6 {
		t.Fatalf("ListHabits() = %d habits, want 6", len(habits))
	}
	first := habits[0].GetStructValue().Fields
	if first["title"].GetStringValue() != "Read" || first["time_of_day"].GetStringValue() != "07:00" {
		t.Errorf("first habit = %v, want Read at 07:00", first)
	}

	out, err = env.call(t, token, "MaterializeTasks", map[string]interface{}{"date": "2024-01-15"})
	if err != nil {
		t.Fatalf("MaterializeTasks() error = %v", err)
	}
	tasks := out.Fields["tasks"].GetListValue().GetValues()
	if len(tasks) != 6 {
		t.Fatalf("MaterializeTasks() = %d tasks, want 6", len(tasks))
	}

	taskID := tasks[0].GetStructValue().Fields["id"].GetStringValue()
	out, err = env.call(t, token, "ToggleTask", map[string]interface{}{"task_id": taskID})
	if err != nil {
		t.Fatalf("ToggleTask() error = %v", err)
	}
	if !out.Fields["is_done"].GetBoolValue() {
		t.Error("ToggleTask() is_done = false, want true")
	}

	out, err = env.call(t, token, "MaterializeTasks", map[string]interface{}{"date": "2024-01-13", "end_date": "2024-01-15"})
	if err != nil {
		t.Fatalf("MaterializeTasks(range) error = %v", err)
	}
	if got := out.Fields["count"].GetNumberValue(); got != 18 {
		t.Errorf("MaterializeTasks(range) count = %v, want 18", got)
	}

	out, err = env.call(t, token, "GetStats", map[string]interface{}{"today": "2024-01-15"})
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	today := out.Fields["today"].GetStructValue().Fields
	if today["total"].GetNumberValue() != 6 || today["completed"].GetNumberValue() != 1 || today["percentage"].GetNumberValue() != 16.7 {
		t.Errorf("GetStats() today = %v, want 6/1/16.7", today)
	}
	if days := out.Fields["last_7_days"].GetListValue().GetValues(); len(days) != 7 {
		t.Errorf("GetStats() last_7_days = %d, want 7", len(days))
	}
}

func TestHabitTrackerErrors(t *testing.T) {
	env := setup(t)
	token := env.login(t, "alice")

	tests := []struct {
		name   string
		method string
		req    map[string]interface{}
		want   codes.Code
	}{
		{name: "bad task id", method: "ToggleTask", req: map[string]interface{}{"task_id": "x"}, want: codes.InvalidArgument},
		{name: "blank title", method: "CreateHabit", req: map[string]interface{}{"title": " "}, want: codes.InvalidArgument},
		{name: "bad date", method: "MaterializeTasks", req: map[string]interface{}{"date": "01/15/2024"}, want: codes.InvalidArgument},
		{name: "reversed range", method: "MaterializeTasks", req: map[string]interface{}{"date": "2024-01-15", "end_date": "2024-01-01"}, want: codes.InvalidArgument},
		{name: "unknown task", method: "ToggleTask", req: map[string]interface{}{"task_id": uuid.NewString()}, want: codes.NotFound},
		{name: "missing today", method: "GetStats", req: map[string]interface{}{}, want: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.call(t, token, tt.method, tt.req)
			if got := status.Code(err); got != tt.want {
				t.Errorf("%s() code = %v, want %v (err = %v)", tt.method, got, tt.want, err)
			}
		})
	}
}

func TestHealthService(t *testing.T) {
	env := setup(t)

	resp, err := grpc_health_v1.NewHealthClient(env.conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("Check() = %v, want SERVING", resp.GetStatus())
	}
}

func TestHabitTrackerRequiresToken(t *testing.T) {
	env := setup(t)
	token := env.login(t, "alice")

	tests := []struct {
		name   string
		token  string
		method string
	}{
		{name: "no token create", method: "CreateHabit"},
		{name: "no token list", method: "ListHabits"},
		{name: "no token materialize", method: "MaterializeTasks"},
		{name: "no token toggle", method: "ToggleTask"},
		{name: "no token stats", method: "GetStats"},
		{name: "garbage token", token: "not-a-token", method: "ListHabits"},
		{name: "truncated token", token: token[:len(token)-4], method: "ListHabits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.call(t, tt.token, tt.method, map[string]interface{}{"title": "planted", "date": "2024-01-15", "today": "2024-01-15"})
			if got := status.Code(err); got != codes.Unauthenticated {
				t.Errorf("%s() code = %v, want Unauthenticated (err = %v)", tt.method, got, err)
			}
		})
	}

	out, err := env.call(t, token, "ListHabits", map[string]interface{}{})
	if err != nil {
		t.Fatalf("ListHabits() error = %v", err)
	}
	for _, v := range out.Fields["habits"].GetListValue().GetValues() {
		if v.GetStructValue().Fields["title"].GetStringValue() == "planted" {
			t.Error("unauthenticated CreateHabit stored a habit")
		}
	}
}

func TestHabitTrackerIgnoresPayloadUser(t *testing.T) {
	env := setup(t)
	aliceToken := env.login(t, "alice")
	bobToken := env.login(t, "bob")

	out, err := env.call(t, aliceToken, "MaterializeTasks", map[string]interface{}{"date": "2024-01-15"})
	if err != nil {
		t.Fatalf("MaterializeTasks() error = %v", err)
	}
	aliceTask := out.Fields["tasks"].GetListValue().GetValues()[0].GetStructValue().Fields["id"].GetStringValue()
	aliceHabits, err := env.call(t, aliceToken, "ListHabits", map[string]interface{}{})
	if err != nil {
		t.Fatalf("ListHabits() error = %v", err)
	}
	aliceID := aliceHabits.Fields["habits"].GetListValue().GetValues()[0].GetStructValue().Fields["user_id"].GetStringValue()

	// bob names alice in the payload; the token decides.
	out, err = env.call(t, bobToken, "CreateHabit", map[string]interface{}{"user_id": aliceID, "title": "planted"})
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	if got := out.Fields["habit"].GetStructValue().Fields["user_id"].GetStringValue(); got == aliceID {
		t.Errorf("CreateHabit() owner = %s, want bob", got)
	}

	_, err = env.call(t, bobToken, "ToggleTask", map[string]interface{}{"user_id": aliceID, "task_id": aliceTask})
	if got := status.Code(err); got != codes.NotFound {
		t.Errorf("ToggleTask(other user's task) code = %v, want NotFound", got)
	}
}
