package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/trend-finder/internal/config"
	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/generation"
	"github.com/phrazzld/trend-finder/internal/platform/memstore"
	"github.com/phrazzld/trend-finder/internal/platform/postgres"
	"github.com/phrazzld/trend-finder/internal/platform/redisstore"
	"github.com/phrazzld/trend-finder/internal/service"
	"github.com/phrazzld/trend-finder/internal/service/auth"
	"github.com/phrazzld/trend-finder/internal/store"
	"github.com/phrazzld/trend-finder/internal/usage"
	"github.com/redis/go-redis/v9"
)

// Redis namespaces for the two stores.
const (
	redisPersistentNamespace = "trends:persistent:"
	redisSessionNamespace    = "trends:session:"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	// Stores
	persistent store.KeyValueStore
	session    store.KeyValueStore
	memStores  []*memstore.Store

	// Service interfaces
	catalog  domain.Catalog
	sessions auth.SessionService
	trends   service.TrendService
}

// newApplication creates a new application instance with all dependencies initialized.
// The model is constructed by the caller so tests can substitute it.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	model generation.Model,
) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		catalog: domain.DefaultCatalog(),
	}

	var err error
	app.sessions, err = auth.NewSessionService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session service: %w", err)
	}
	logger.Info("Session token service initialized",
		"session_lifetime", cfg.Auth.SessionLifetime.String())

	if err := app.openStores(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	builder, err := generation.NewBuilder(app.catalog)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create prompt builder: %w", err)
	}

	app.trends, err = service.NewTrendService(service.Dependencies{
		Persistent: app.persistent,
		Session:    app.session,
		Builder:    builder,
		Model:      model,
		Extractor: generation.NewExtractor(generation.ExtractorOptions{
			StrictRanking: cfg.LLM.StrictRanking,
		}),
		Usage: usage.Config{
			Limit:  cfg.Usage.DailyLimit,
			Window: cfg.Usage.Window,
		},
	}, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create trend service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// openStores connects the configured persistent and session backends.
func (app *application) openStores(ctx context.Context) error {
	storage := app.config.Storage

	if storage.NeedsRedis() {
		client, err := redisstore.Connect(ctx, storage.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.redis = client
		app.logger.Info("Redis connection established")
	}

	if storage.NeedsPostgres() {
		db, err := postgres.Open(ctx, storage.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.db = db
		if err := postgres.Migrate(ctx, db, "up", app.logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		app.logger.Info("Database connection established")
	}

	switch storage.PersistentBackend {
	case config.BackendRedis:
		app.persistent = redisstore.New(app.redis, redisPersistentNamespace, 0, app.logger)
	case config.BackendPostgres:
		app.persistent = postgres.NewKVStore(app.db, app.logger)
	default:
		app.persistent = app.newMemStore(0)
	}

	lifetime := app.config.Auth.SessionLifetime
	switch storage.SessionBackend {
	case config.BackendRedis:
		app.session = redisstore.New(app.redis, redisSessionNamespace, lifetime, app.logger)
	default:
		app.session = app.newMemStore(lifetime)
	}

	app.logger.Info("Stores ready",
		"persistent_backend", storage.PersistentBackend,
		"session_backend", storage.SessionBackend)
	return nil
}

func (app *application) newMemStore(ttl time.Duration) *memstore.Store {
	s := memstore.New(memstore.Options{TTL: ttl, SweepInterval: time.Minute})
	app.memStores = append(app.memStores, s)
	return s
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	for _, s := range app.memStores {
		s.Close()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
