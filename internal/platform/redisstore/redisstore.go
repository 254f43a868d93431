// Package redisstore implements store.KeyValueStore on Redis. It serves as
// the session store in multi-instance deployments, where the TTL stands in
// for the end of a browser session, and can also hold the usage counters.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/store"
	"github.com/redis/go-redis/v9"
)

const backendName = "redis"

// maxUpdateAttempts bounds the optimistic retry loop in Update.
const maxUpdateAttempts = 10

// Connect initializes a Redis client from URL or host:port input.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Store is a Redis-backed KeyValueStore.
type Store struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

var (
	_ store.KeyValueStore = (*Store)(nil)
	_ store.Updater       = (*Store)(nil)
)

// New wraps client. Every key is stored under namespace, separated by ':';
// a positive ttl is (re)applied on each write.
func New(client redis.UniversalClient, namespace string, ttl time.Duration, log *slog.Logger) *Store {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if namespace != "" && !strings.HasSuffix(namespace, ":") {
		namespace += ":"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		logger:    log.With(slog.String("component", "redis_store")),
	}
}

func (s *Store) key(k string) string {
	return s.namespace + k
}

// Get returns the value for key or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", s.mapError(ctx, "get", key, err)
	}
	return v, nil
}

// Set writes value under key with the store's TTL.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return s.mapError(ctx, "set", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return s.mapError(ctx, "remove", key, err)
	}
	return nil
}

// Update performs an optimistic read-modify-write with WATCH/MULTI. A write
// by another client between the read and EXEC aborts the transaction and
// the whole cycle is retried.
func (s *Store) Update(ctx context.Context, key string, fn store.UpdateFunc) error {
	rk := s.key(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, rk).Result()
		found := true
		if errors.Is(err, redis.Nil) {
			current, found = "", false
		} else if err != nil {
			return err
		}

		next, err := fn(current, found)
		if err != nil {
			return &callbackError{err: err}
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, rk, next, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, rk)
		if err == nil {
			return nil
		}

		var cbErr *callbackError
		if errors.As(err, &cbErr) {
			return cbErr.err
		}
		if errors.Is(err, redis.TxFailedErr) {
			logger.FromContextOrDefault(ctx, s.logger).Debug("redis update conflict, retrying",
				slog.String("key", key),
				slog.Int("attempt", attempt))
			continue
		}
		return s.mapError(ctx, "update", key, err)
	}

	return store.NewStoreError(backendName, "update", key, store.ErrConflict)
}

func (s *Store) mapError(ctx context.Context, op, key string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	logger.FromContextOrDefault(ctx, s.logger).Warn("redis operation failed",
		slog.String("operation", op),
		slog.String("key", key),
		slog.String("error", err.Error()))
	return store.Unavailable(backendName, op, key, err)
}

// callbackError marks an error returned by the caller's UpdateFunc so it
// is passed through rather than treated as a Redis failure.
type callbackError struct {
	err error
}

func (e *callbackError) Error() string { return e.err.Error() }
func (e *callbackError) Unwrap() error { return e.err }
