// Package memstore is an in-process store.KeyValueStore. It backs both the
// persistent and the session store in development and tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/trend-finder/internal/store"
)

const defaultSweepInterval = 10 * time.Minute

// Options configures a Store.
type Options struct {
	// TTL expires entries this long after their last write. Zero keeps
	// entries until removed.
	TTL time.Duration

	// SweepInterval controls how often expired entries are purged.
	// Defaults to ten minutes; ignored when TTL is zero.
	SweepInterval time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time // zero means never
}

// Store is a thread-safe map with optional TTL.
type Store struct {
	mu     sync.RWMutex
	data   map[string]entry
	ttl    time.Duration
	now    func() time.Time
	closed bool

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var (
	_ store.KeyValueStore = (*Store)(nil)
	_ store.Updater       = (*Store)(nil)
)

// New creates a Store. Call Close to stop the expiry sweep.
func New(opts Options) *Store {
	s := &Store{
		data: make(map[string]entry),
		ttl:  opts.TTL,
		now:  opts.Now,
		stop: make(chan struct{}),
	}
	if s.now == nil {
		s.now = time.Now
	}

	if s.ttl > 0 {
		interval := opts.SweepInterval
		if interval <= 0 {
			interval = defaultSweepInterval
		}
		s.wg.Add(1)
		go s.sweep(interval)
	}

	return s
}

// Get returns the value for key or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", store.Unavailable("memory", "get", key, errClosed)
	}
	e, ok := s.live(key)
	if !ok {
		return "", store.ErrNotFound
	}
	return e.value, nil
}

// Set stores value under key and refreshes its expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.Unavailable("memory", "set", key, errClosed)
	}
	s.put(key, value)
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.Unavailable("memory", "remove", key, errClosed)
	}
	delete(s.data, key)
	return nil
}

// Update runs fn under the write lock, so concurrent updates to any key
// are serialized.
func (s *Store) Update(ctx context.Context, key string, fn store.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.Unavailable("memory", "update", key, errClosed)
	}

	e, found := s.live(key)
	next, err := fn(e.value, found)
	if err != nil {
		return err
	}
	s.put(key, next)
	return nil
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for k := range s.data {
		if _, ok := s.live(k); ok {
			n++
		}
	}
	return n
}

// Close stops the sweep goroutine and makes further calls fail with
// store.ErrUnavailable. It is safe to call more than once.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()

		s.mu.Lock()
		s.closed = true
		s.data = nil
		s.mu.Unlock()
	})
}

// live must be called with the lock held.
func (s *Store) live(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		return entry{}, false
	}
	return e, true
}

func (s *Store) put(key, value string) {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.data[key] = e
}

func (s *Store) sweep(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.purgeExpired()
		}
	}
}

func (s *Store) purgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.data {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
