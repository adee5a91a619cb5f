package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
	"habit-tracker/internal/domain/service"
)

// DailyTaskGenerator periodically enqueues task materialization for every user
type DailyTaskGenerator struct {
	userRepo repository.UserRepository
	enqueuer service.TaskEnqueuer
	cron     *cron.Cron
	schedule string
	daysBack int
	now      func() time.Time
	log      zerolog.Logger
}

// NewDailyTaskGenerator creates a generator running on a standard 5-field cron schedule
func NewDailyTaskGenerator(
	userRepo repository.UserRepository,
	enqueuer service.TaskEnqueuer,
	schedule string,
	daysBack int,
	log zerolog.Logger,
) *DailyTaskGenerator {
	return &DailyTaskGenerator{
		userRepo: userRepo,
		enqueuer: enqueuer,
		cron:     cron.New(),
		schedule: schedule,
		daysBack: daysBack,
		now:      time.Now,
		log:      log.With().Str("component", "task_generator").Logger(),
	}
}

// Start registers the job and starts the scheduler
func (g *DailyTaskGenerator) Start() error {
	_, err := g.cron.AddFunc(g.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := g.Run(ctx); err != nil {
			g.log.Error().Err(err).Msg("daily task generation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	g.cron.Start()
	g.log.Info().Str("schedule", g.schedule).Int("days_back", g.daysBack).Msg("daily task generator started")

	return nil
}

// Stop stops the scheduler and waits for a running job
func (g *DailyTaskGenerator) Stop() {
	ctx := g.cron.Stop()
	<-ctx.Done()
	g.log.Info().Msg("daily task generator stopped")
}

// Run enqueues today and the configured number of past days for each user.
// One user's failure does not stop the others.
func (g *DailyTaskGenerator) Run(ctx context.Context) error {
	today := entity.Date(g.now())

	users, err := g.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	failed := 0
	for _, user := range users {
		for i := 0; i <= g.daysBack; i++ {
			if err := g.enqueuer.EnqueueMaterialize(ctx, user.ID, today.AddDate(0, 0, -i)); err != nil {
				failed++
				g.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to materialize tasks")
			}
		}
	}

	g.log.Info().
		Str("date", today.Format(entity.DateLayout)).
		Int("users", len(users)).
		Int("failed", failed).
		Msg("daily task generation dispatched")

	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(users)*(g.daysBack+1))
	}
	return nil
}
