package usage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/store"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultLimit  = 5
	DefaultWindow = 24 * time.Hour
)

// Config configures a Limiter.
type Config struct {
	Limit  int
	Window time.Duration
	Now    func() time.Time

	// Lock serializes read-modify-write when the store is not a
	// store.Updater. Limiters over the same record must share it; nil gives
	// the Limiter a lock of its own.
	Lock sync.Locker
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed bool
	// RetryAfter is when the current window ends. It is set whether or not
	// the call was allowed.
	RetryAfter time.Time
	// Remaining is the number of calls left in the window after this one.
	Remaining int
	Limit     int
}

// Limiter enforces Limit calls per Window for the record in one store.
type Limiter struct {
	store  store.KeyValueStore
	limit  int
	window time.Duration
	now    func() time.Time
	logger *slog.Logger

	lock sync.Locker
}

// New creates a Limiter over s. s is expected to be scoped to one client
// already (see store.WithPrefix).
func New(s store.KeyValueStore, cfg Config, log *slog.Logger) *Limiter {
	if s == nil {
		panic("usage store cannot be nil")
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Lock == nil {
		cfg.Lock = &sync.Mutex{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Limiter{
		store:  s,
		limit:  cfg.Limit,
		window: cfg.Window,
		now:    cfg.Now,
		logger: log.With(slog.String("component", "usage_limiter")),
		lock:   cfg.Lock,
	}
}

// CheckAndConsume charges one call against the quota if any remain.
// The error is non-nil only when ctx is done.
func (l *Limiter) CheckAndConsume(ctx context.Context) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	var (
		decision Decision
		applied  bool
	)
	apply := func(current string, found bool) (string, error) {
		applied = true
		rec := l.current(ctx, current, found)
		decision = l.decide(rec)
		if !decision.Allowed {
			return "", errDenied
		}
		rec.Count++
		decision.Remaining = l.limit - rec.Count
		return encodeRecord(rec)
	}

	if u, ok := l.store.(store.Updater); ok {
		err := u.Update(ctx, StorageKey, apply)
		if err != nil && !applied && ctx.Err() == nil {
			// The store failed before the record could be read; charge
			// against a fresh window that will not be persisted.
			l.warn(ctx, "usage record unreadable, starting fresh window", err)
			return l.decide(domain.UsageRecord{Count: 1, WindowStart: l.now()}), nil
		}
		return l.finish(ctx, decision, err)
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	current, err := l.store.Get(ctx, StorageKey)
	found := err == nil
	if err != nil && !store.IsNotFound(err) {
		l.warn(ctx, "usage record unreadable, starting fresh window", err)
	}

	next, err := apply(current, found)
	if err != nil {
		return l.finish(ctx, decision, err)
	}
	return l.finish(ctx, decision, l.store.Set(ctx, StorageKey, next))
}

// Peek reports the quota state without consuming a call.
func (l *Limiter) Peek(ctx context.Context) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	current, err := l.store.Get(ctx, StorageKey)
	found := err == nil
	if err != nil && !store.IsNotFound(err) {
		l.warn(ctx, "usage record unreadable", err)
	}
	return l.decide(l.current(ctx, current, found)), nil
}

var errDenied = errors.New("quota exhausted")

// current turns the stored value into the record in effect now, starting a
// fresh window when the value is absent, malformed or stale.
func (l *Limiter) current(ctx context.Context, raw string, found bool) domain.UsageRecord {
	now := l.now()
	fresh := domain.UsageRecord{Count: 0, WindowStart: now}
	if !found {
		return fresh
	}

	rec, ok := decodeRecord(raw)
	if !ok {
		logger.FromContextOrDefault(ctx, l.logger).Warn("malformed usage record, resetting")
		return fresh
	}
	if now.Sub(rec.WindowStart) > l.window {
		return fresh
	}
	return rec
}

func (l *Limiter) decide(rec domain.UsageRecord) Decision {
	remaining := l.limit - rec.Count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:    rec.Count < l.limit,
		RetryAfter: rec.WindowStart.Add(l.window),
		Remaining:  remaining,
		Limit:      l.limit,
	}
}

// finish swallows storage errors: a failed write still allows the call.
func (l *Limiter) finish(ctx context.Context, d Decision, err error) (Decision, error) {
	switch {
	case err == nil, errors.Is(err, errDenied):
		return d, nil
	case ctx.Err() != nil:
		return Decision{}, ctx.Err()
	default:
		l.warn(ctx, "failed to persist usage record, quota not enforced", err)
		return d, nil
	}
}

func (l *Limiter) warn(ctx context.Context, msg string, err error) {
	logger.FromContextOrDefault(ctx, l.logger).Warn(msg, slog.String("error", err.Error()))
}
