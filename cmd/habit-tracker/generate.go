package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/service"
)

var (
	generateDate     string
	generateDaysBack int
)

var generateCmd = &cobra.Command{
	Use:   "generate-tasks",
	Short: "Create daily tasks for every user's habits",
	Long: `Create the daily tasks of every user for --date (default today) and the
--days-back days before it. Existing tasks are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateDate, "date", "", "date to generate tasks for, YYYY-MM-DD (default today)")
	generateCmd.Flags().IntVar(&generateDaysBack, "days-back", 0, "also generate this many previous days")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	date := entity.Date(time.Now())
	if generateDate != "" {
		parsed, err := service.ParseDate(generateDate)
		if err != nil {
			return err
		}
		date = parsed
	}

	store, services, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := services.Tasks.GenerateForAllUsers(cmd.Context(), date, generateDaysBack)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully generated tasks for %d users (%d total tasks) for date %s\n",
		report.Users, report.Tasks, report.Date.Format(entity.DateLayout))
	return nil
}
