package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/store"
)

const (
	getQuery = `SELECT value FROM kv_entries WHERE key = $1`

	upsertQuery = `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	deleteQuery = `DELETE FROM kv_entries WHERE key = $1`

	// A transaction-scoped advisory lock serializes updates to one key even
	// when no row exists yet for SELECT ... FOR UPDATE to lock.
	lockKeyQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`

	getForUpdateQuery = `SELECT value FROM kv_entries WHERE key = $1 FOR UPDATE`
)

// KVStore implements store.KeyValueStore and store.Updater on PostgreSQL.
type KVStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ store.KeyValueStore = (*KVStore)(nil)
	_ store.Updater       = (*KVStore)(nil)
)

// NewKVStore creates a KVStore. The kv_entries table must exist; see Migrate.
// If logger is nil, a default logger will be used.
func NewKVStore(db *sql.DB, logger *slog.Logger) *KVStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KVStore{
		db:     db,
		logger: logger.With(slog.String("component", "kv_store")),
	}
}

// Get implements store.KeyValueStore.Get.
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	return s.get(ctx, s.db, getQuery, key)
}

// Set implements store.KeyValueStore.Set.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	return s.set(ctx, s.db, key, value)
}

// Remove implements store.KeyValueStore.Remove.
func (s *KVStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteQuery, key); err != nil {
		return s.fail(ctx, "remove", key, err)
	}
	return nil
}

// Update implements store.Updater.Update inside a single transaction.
func (s *KVStore) Update(ctx context.Context, key string, fn store.UpdateFunc) error {
	var callbackErr error

	err := RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, lockKeyQuery, key); err != nil {
			return s.fail(ctx, "update", key, err)
		}

		current, err := s.get(ctx, tx, getForUpdateQuery, key)
		found := true
		if store.IsNotFound(err) {
			current, found = "", false
		} else if err != nil {
			return err
		}

		next, err := fn(current, found)
		if err != nil {
			callbackErr = err
			return err
		}

		return s.set(ctx, tx, key, next)
	})
	if callbackErr != nil {
		return callbackErr
	}
	if err != nil {
		return MapError("update", key, err)
	}
	return nil
}

func (s *KVStore) get(ctx context.Context, db DBTX, query, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", s.fail(ctx, "get", key, err)
	}
	return value, nil
}

func (s *KVStore) set(ctx context.Context, db DBTX, key, value string) error {
	if _, err := db.ExecContext(ctx, upsertQuery, key, value); err != nil {
		return s.fail(ctx, "set", key, err)
	}
	return nil
}

func (s *KVStore) fail(ctx context.Context, op, key string, err error) error {
	mapped := MapError(op, key, err)
	if mapped != err {
		logger.FromContextOrDefault(ctx, s.logger).Warn("kv operation failed",
			slog.String("operation", op),
			slog.String("key", key),
			slog.Bool("connection_error", IsConnectionError(err)),
			slog.String("error", err.Error()))
	}
	return mapped
}
