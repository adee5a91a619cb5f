package service

import (
	"context"
	"fmt"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/repository"
)

// DefaultHabit is one starter habit
type DefaultHabit struct {
	Title     string
	TimeOfDay entity.TimeOfDay
}

// DefaultHabits are seeded for every new user, in this order
var DefaultHabits = []DefaultHabit{
	{Title: "Wake up at a specific morning time", TimeOfDay: entity.NewTimeOfDay(7, 0)},
	{Title: "Running / Exercise", TimeOfDay: entity.NewTimeOfDay(8, 0)},
	{Title: "Reading a book", TimeOfDay: entity.NewTimeOfDay(19, 0)},
	{Title: "Working / Studying", TimeOfDay: entity.NewTimeOfDay(9, 0)},
}

// Provisioner seeds starter habits. It is not idempotent: the user service
// calls it once, right after the user is first stored.
type Provisioner struct {
	habitRepo repository.HabitRepository
}

// NewProvisioner creates a default-habit provisioner
func NewProvisioner(habitRepo repository.HabitRepository) *Provisioner {
	return &Provisioner{habitRepo: habitRepo}
}

// Provision creates the default habits for user; usable as a UserCreatedHook
func (p *Provisioner) Provision(ctx context.Context, user *entity.User) error {
	for _, d := range DefaultHabits {
		habit := entity.NewHabit(user.ID, d.Title, d.TimeOfDay)
		if err := p.habitRepo.Create(ctx, habit); err != nil {
			return fmt.Errorf("failed to provision habit %q: %w", d.Title, err)
		}
	}
	return nil
}
