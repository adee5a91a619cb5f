// Package main implements the habit-tracker server and admin CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"habit-tracker/internal/app"
	"habit-tracker/internal/config"
	"habit-tracker/internal/logger"
)

// @title Habit Tracker API
// @version 1.0
// @description Habits, daily tasks and completion statistics

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

var configPath string

var rootCmd = &cobra.Command{
	Use:          "habit-tracker",
	Short:        "Track habits and their daily tasks",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (default $CONFIG_PATH or ./config/base.yaml)")
}

// setup loads the configuration and builds the logger
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

// openServices opens the configured store and wires the services for one-shot commands
func openServices(ctx context.Context) (*app.Store, *app.Services, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, nil, err
	}

	store, err := app.OpenStore(ctx, &cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}

	return store, app.NewServices(store, cfg, nil, nil, log), nil
}
