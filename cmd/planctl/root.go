package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/database"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "planctl inspects and maintains meal plans",
	Long: "planctl runs database migrations and reports plan budgets, daily consumption " +
		"and shopping lists against the same database as the API server.",
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
}

// loadConfig reads the environment and builds a console logger on stderr.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	cfg.Logger.Format = "console"
	return cfg, config.NewLogger(cfg.Logger), nil
}

// withApp connects to the database, applies pending migrations and runs fn.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	if _, err := database.Migrate(ctx, application.Pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return fn(application)
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseDayArg(value string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid day %q", value)
	}
	return day, nil
}
