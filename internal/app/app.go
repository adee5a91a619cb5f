package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"habit-tracker/internal/config"
	"habit-tracker/internal/domain/repository"
	domainservice "habit-tracker/internal/domain/service"
	cronpkg "habit-tracker/internal/infrastructure/cron"
	"habit-tracker/internal/infrastructure/kafka"
	"habit-tracker/internal/infrastructure/memory"
	"habit-tracker/internal/infrastructure/queue"
	"habit-tracker/internal/infrastructure/redis"
	"habit-tracker/internal/transport/grpc"
	httptransport "habit-tracker/internal/transport/http"
	"habit-tracker/internal/transport/http/handlers"
	"habit-tracker/internal/transport/http/middleware"
)

// App represents the application
type App struct {
	config     *config.Config
	log        zerolog.Logger
	store      *Store
	redis      *goredis.Client
	publisher  domainservice.EventPublisher
	enqueuer   domainservice.TaskEnqueuer
	worker     *queue.Worker
	generator  *cronpkg.DailyTaskGenerator
	httpServer *http.Server
	grpcServer *grpc.Server
}

// New creates a new application
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := OpenStore(ctx, &cfg.Database, log)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Connected to %s database\n", cfg.Database.Driver)

	applied, err := store.Migrate(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Printf("Database schema up to date (%d migrations applied)\n", applied)

	a := &App{config: cfg, log: log, store: store}

	var sessions repository.SessionRepository = memory.NewSessionStorage()
	if cfg.Redis.Addr != "" {
		a.redis, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		sessions = redis.NewSessionStorage(a.redis)
		fmt.Println("Connected to Redis")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		a.publisher = kafka.NewProducer(&cfg.Kafka, log)
		fmt.Println("Kafka producer initialized")
	} else {
		a.publisher = kafka.NoopPublisher{}
	}

	services := NewServices(store, cfg, sessions, a.publisher, log)
	fmt.Println("Services initialized")

	if cfg.Queue.Enabled {
		redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		a.enqueuer = queue.NewAsynqEnqueuer(redisOpt, log)
		a.worker = queue.NewWorker(redisOpt, cfg.Queue.Concurrency, services.Tasks, log)
		fmt.Println("Task queue initialized")
	} else {
		a.enqueuer = queue.NewInlineEnqueuer(services.Tasks)
	}

	if cfg.Scheduler.Enabled {
		a.generator = cronpkg.NewDailyTaskGenerator(store.Users, a.enqueuer, cfg.Scheduler.Schedule, cfg.Scheduler.DaysBack, log)
		fmt.Println("Daily task generator initialized")
	} else {
		fmt.Println("Daily task generator is disabled in configuration")
	}

	handler, err := a.newHTTPHandler(services)
	if err != nil {
		a.close()
		return nil, err
	}
	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	if cfg.GRPC.Enabled {
		grpcHandler := grpc.NewHabitTrackerHandler(services.Habits, services.Tasks, services.Stats, log)
		a.grpcServer = grpc.NewServer(grpcHandler, services.Users, &cfg.GRPC, log)
	}

	return a, nil
}

func (a *App) newHTTPHandler(services *Services) (http.Handler, error) {
	cfg := a.config

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", cfg.RateLimit.RatePerIP, err)
	}

	checks := []handlers.HealthCheck{{Name: "database", Ping: a.store.Ping}}
	if a.redis != nil {
		checks = append(checks, handlers.HealthCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return a.redis.Ping(ctx).Err() },
		})
	}

	routerCfg := httptransport.RouterConfig{
		AuthHandler:   handlers.NewAuthHandler(services.Users, a.log),
		HabitHandler:  handlers.NewHabitHandler(services.Habits, a.log),
		TaskHandler:   handlers.NewTaskHandler(services.Tasks, nil, a.log),
		StatsHandler:  handlers.NewStatsHandler(services.Stats, nil, a.log),
		HealthHandler: handlers.NewHealthHandler(checks...),
		RequireJWT:    middleware.NewAuthValidator(services.Users, a.log).Handler,
		Log:           a.log,
		Secure:        middleware.NewSecure(middleware.SecureOptions(cfg.Service.Environment == "development")),
		IPRateLimit:   ipLimit,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = middleware.PrometheusMiddleware
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	return httptransport.NewRouter(routerCfg), nil
}

// Run starts the application and blocks until SIGINT or SIGTERM
func (a *App) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	if a.worker != nil {
		if err := a.worker.Start(); err != nil {
			return fmt.Errorf("failed to start task worker: %w", err)
		}
	}

	if a.generator != nil {
		if err := a.generator.Start(); err != nil {
			return fmt.Errorf("failed to start daily task generator: %w", err)
		}
	}

	go func() {
		fmt.Printf("HTTP server listening on %s\n", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("HTTP server error: %v\n", err)
			quit <- syscall.SIGTERM
		}
	}()

	if a.grpcServer != nil {
		go func() {
			if err := a.grpcServer.Start(); err != nil {
				fmt.Printf("gRPC server error: %v\n", err)
				quit <- syscall.SIGTERM
			}
		}()
	}

	fmt.Printf("%s started\n", a.config.Service.Name)
	fmt.Println("Press Ctrl+C to shutdown...")

	<-quit
	fmt.Println("\nShutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), a.config.HTTP.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("HTTP shutdown error: %v\n", err)
	}

	if a.grpcServer != nil {
		a.grpcServer.Stop()
	}

	a.close()

	fmt.Println("Server shutdown complete")
	return nil
}

func (a *App) close() {
	if a.generator != nil {
		a.generator.Stop()
	}
	if a.worker != nil {
		a.worker.Shutdown()
	}
	if a.enqueuer != nil {
		if err := a.enqueuer.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close task enqueuer")
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close event publisher")
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	a.store.Close()
}
