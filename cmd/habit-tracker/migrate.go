package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"habit-tracker/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	store, err := app.OpenStore(cmd.Context(), &cfg.Database, log)
	if err != nil {
		return err
	}
	defer store.Close()

	applied, err := store.Migrate(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations\n", applied)
	return nil
}
