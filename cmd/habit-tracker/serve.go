package main

import (
	"github.com/spf13/cobra"

	"habit-tracker/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC servers, the scheduler and the task worker",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	application, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	return application.Run()
}
