package app

import (
	"github.com/rs/zerolog"

	"habit-tracker/internal/config"
	"habit-tracker/internal/domain/repository"
	domainservice "habit-tracker/internal/domain/service"
	"habit-tracker/internal/service"
	"habit-tracker/pkg/jwt"
)

// Services bundles the domain services over one store
type Services struct {
	Users  domainservice.UserService
	Habits domainservice.HabitService
	Tasks  domainservice.TaskService
	Stats  domainservice.StatsService
}

// NewServices wires the services. New users get the default habits through
// the provisioner, registered as the user service's post-creation hook.
func NewServices(
	store *Store,
	cfg *config.Config,
	sessions repository.SessionRepository,
	publisher domainservice.EventPublisher,
	log zerolog.Logger,
	opts ...service.UserServiceOption,
) *Services {
	tokenManager := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.Issuer)
	provisioner := service.NewProvisioner(store.Habits)

	opts = append([]service.UserServiceOption{service.WithUserCreatedHook(provisioner.Provision)}, opts...)

	return &Services{
		Users:  service.NewUserService(store.Users, sessions, tokenManager, publisher, log, opts...),
		Habits: service.NewHabitService(store.Habits),
		Tasks:  service.NewTaskService(store.Users, store.Habits, store.Tasks, publisher, log),
		Stats:  service.NewStatsService(store.Tasks),
	}
}
