package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/trend-finder/internal/cache"
	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/generation"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/store"
	"github.com/phrazzld/trend-finder/internal/usage"
)

// Store key prefixes that scope the shared backends to one caller.
const (
	usagePrefix   = "usage:"
	sessionPrefix = "session:"
)

// TrendService defines the operations for fetching trend results.
type TrendService interface {
	// FetchTrends returns the ranked trends for req on behalf of caller.
	//
	// Returns:
	//   - *QuotaExceededError (matches ErrQuotaExceeded) when the quota is used up
	//   - an error matching ErrNetwork when the model call failed
	//   - *generation.ExtractionError when the answer could not be used
	//   - an error matching ErrUnknown otherwise
	FetchTrends(ctx context.Context, caller domain.Caller, req domain.Request) (domain.Result, error)

	// Usage reports the caller's quota without consuming a call.
	Usage(ctx context.Context, caller domain.Caller) (usage.Decision, error)
}

// Dependencies bundles what a TrendService needs.
type Dependencies struct {
	// Persistent holds usage records; it outlives sessions.
	Persistent store.KeyValueStore
	// Session holds cached results; entries expire with the session.
	Session    store.KeyValueStore
	Builder    *generation.Builder
	Model      generation.Model
	Extractor  *generation.Extractor
	Usage      usage.Config
}

type trendServiceImpl struct {
	persistent store.KeyValueStore
	session    store.KeyValueStore
	builder    *generation.Builder
	model      generation.Model
	extractor  *generation.Extractor
	usage      usage.Config
	locks      *usage.Locks
	logger     *slog.Logger
}

var _ TrendService = (*trendServiceImpl)(nil)

// NewTrendService creates a TrendService.
func NewTrendService(deps Dependencies, log *slog.Logger) (TrendService, error) {
	if deps.Persistent == nil {
		return nil, fmt.Errorf("persistent store cannot be nil")
	}
	if deps.Session == nil {
		return nil, fmt.Errorf("session store cannot be nil")
	}
	if deps.Builder == nil {
		return nil, fmt.Errorf("prompt builder cannot be nil")
	}
	if deps.Model == nil {
		return nil, fmt.Errorf("model cannot be nil")
	}
	if deps.Extractor == nil {
		deps.Extractor = generation.NewExtractor(generation.ExtractorOptions{})
	}
	if log == nil {
		log = slog.Default()
	}

	return &trendServiceImpl{
		persistent: deps.Persistent,
		session:    deps.Session,
		builder:    deps.Builder,
		model:      deps.Model,
		extractor:  deps.Extractor,
		usage:      deps.Usage,
		locks:      &usage.Locks{},
		logger:     log.With(slog.String("component", "trend_service")),
	}, nil
}

func (s *trendServiceImpl) limiterFor(caller domain.Caller) *usage.Limiter {
	prefix := usagePrefix + caller.ClientID + ":"
	cfg := s.usage
	cfg.Lock = s.locks.For(prefix)
	return usage.New(store.WithPrefix(s.persistent, prefix), cfg, s.logger)
}

func (s *trendServiceImpl) cacheFor(caller domain.Caller) *cache.ResponseCache {
	scoped := store.WithPrefix(s.session, sessionPrefix+caller.SessionID+":")
	return cache.New(scoped, s.logger)
}

// FetchTrends implements TrendService.
func (s *trendServiceImpl) FetchTrends(
	ctx context.Context,
	caller domain.Caller,
	req domain.Request,
) (domain.Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("client_id", caller.ClientID),
		slog.String("country", req.Country),
		slog.String("category", req.Category),
	)

	// Charge the quota first; cache hits count too
	decision, err := s.limiterFor(caller).CheckAndConsume(ctx)
	if err != nil {
		return domain.Result{}, s.mapContextError(err)
	}
	if !decision.Allowed {
		log.Info("usage quota exceeded",
			slog.Time("retry_after", decision.RetryAfter),
			slog.Int("limit", decision.Limit))
		return domain.Result{}, &QuotaExceededError{
			RetryAfter: decision.RetryAfter,
			Limit:      decision.Limit,
		}
	}

	// Same filters in this session: answer from the cache
	responses := s.cacheFor(caller)
	if cached, ok := responses.Lookup(ctx, req); ok {
		log.Debug("serving cached trends", slog.Int("products", len(cached.Products)))
		return cached, nil
	}

	prompt, err := s.builder.Build(req)
	if err != nil {
		log.Error("failed to build prompt", slog.String("error", err.Error()))
		return domain.Result{}, fmt.Errorf("%w: build prompt: %v", ErrUnknown, err)
	}

	// Ask the model
	start := time.Now()
	raw, err := s.model.Generate(ctx, prompt)
	if err != nil {
		log.Error("model call failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return domain.Result{}, &networkError{err: err}
	}

	result, err := s.extractor.Extract(raw, prompt.Variant)
	if err != nil {
		var extractionErr *generation.ExtractionError
		if errors.As(err, &extractionErr) {
			log.Warn("model answer rejected",
				slog.String("kind", extractionErr.Kind.String()),
				slog.String("variant", extractionErr.Variant.String()),
				slog.String("field", extractionErr.Field),
				slog.String("finish_reason", raw.FinishReason))
			return domain.Result{}, extractionErr
		}
		log.Error("unexpected extraction failure", slog.String("error", err.Error()))
		return domain.Result{}, fmt.Errorf("%w: %v", ErrUnknown, err)
	}

	// Only usable results are cached
	responses.Store(ctx, req, result)
	log.Info("trends fetched",
		slog.Int("products", len(result.Products)),
		slog.Int("sources", len(result.Sources)),
		slog.String("variant", prompt.Variant.String()),
		slog.Int("remaining", decision.Remaining),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// Usage implements TrendService.
func (s *trendServiceImpl) Usage(ctx context.Context, caller domain.Caller) (usage.Decision, error) {
	d, err := s.limiterFor(caller).Peek(ctx)
	if err != nil {
		return usage.Decision{}, s.mapContextError(err)
	}
	return d, nil
}

func (s *trendServiceImpl) mapContextError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &networkError{err: err}
	}
	return fmt.Errorf("%w: %v", ErrUnknown, err)
}
