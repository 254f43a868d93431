// Package main implements the entry point for the Trend Finder API server,
// which turns country, category and time-range filters into a ranked list
// of trending products using a web-grounded generative model.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/trend-finder/internal/config"
	"github.com/phrazzld/trend-finder/internal/platform/gemini"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/platform/postgres"
)

// main is the entry point for the trend-finder server.
// With -migrate it applies or inspects the PostgreSQL schema and exits;
// otherwise it wires the application and serves HTTP until signalled.
func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrate); err != nil {
		log.Fatalf("trend-finder: %v", err)
	}
}

func run(ctx context.Context, migrateCommand string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel, Output: os.Stdout})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("persistent_backend", cfg.Storage.PersistentBackend),
		slog.String("session_backend", cfg.Storage.SessionBackend),
		slog.Int("daily_limit", cfg.Usage.DailyLimit))

	if migrateCommand != "" {
		return runMigrations(ctx, cfg, migrateCommand, appLogger)
	}

	model, err := gemini.NewModel(ctx, appLogger.With("component", "gemini_model"), cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize model client: %w", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, model)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// runMigrations executes a goose command against the configured database.
func runMigrations(ctx context.Context, cfg *config.Config, command string, log *slog.Logger) error {
	if cfg.Storage.DatabaseURL == "" {
		return fmt.Errorf("migrations require storage.database_url")
	}

	db, err := postgres.Open(ctx, cfg.Storage.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("Error closing database connection", "error", cerr)
		}
	}()

	if err := postgres.Migrate(ctx, db, command, log); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	log.Info("Migration command completed", slog.String("command", command))
	return nil
}
