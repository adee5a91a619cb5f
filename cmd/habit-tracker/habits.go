package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var habitsCmd = &cobra.Command{
	Use:   "habits",
	Short: "Inspect habits",
}

var habitsListUser string

var habitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's habits in daily order",
	Args:  cobra.NoArgs,
	RunE:  runHabitsList,
}

func init() {
	rootCmd.AddCommand(habitsCmd)
	habitsCmd.AddCommand(habitsListCmd)
	habitsListCmd.Flags().StringVar(&habitsListUser, "user", "", "username")
	_ = habitsListCmd.MarkFlagRequired("user")
}

func runHabitsList(cmd *cobra.Command, args []string) error {
	store, services, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := services.Users.GetByUsername(cmd.Context(), habitsListUser)
	if err != nil {
		return fmt.Errorf("user %s: %w", habitsListUser, err)
	}

	habits, err := services.Habits.ListHabits(cmd.Context(), user.ID)
	if err != nil {
		return err
	}

	for _, habit := range habits {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", habit.TimeOfDay, habit.Title)
	}
	return nil
}
