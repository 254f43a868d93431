// Package cache memoizes successful trend results per session.
//
// Entries are keyed by the exact filter values of a request, so two requests
// that differ only in whitespace are different entries. The cache never
// expires entries itself; lifetime belongs to the backing store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/store"
)

// ResponseCache stores domain.Result values in a session-scoped store.
type ResponseCache struct {
	store  store.KeyValueStore
	logger *slog.Logger
}

// New creates a ResponseCache over s.
func New(s store.KeyValueStore, log *slog.Logger) *ResponseCache {
	if s == nil {
		panic("cache store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ResponseCache{
		store:  s,
		logger: log.With(slog.String("component", "response_cache")),
	}
}

// Lookup returns the cached result for req. Any failure, including a
// corrupt entry, is reported as a miss; corrupt entries are removed.
func (c *ResponseCache) Lookup(ctx context.Context, req domain.Request) (domain.Result, bool) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	key := Key(req)

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !store.IsNotFound(err) {
			log.Warn("cache read failed, treating as miss", slog.String("error", err.Error()))
		}
		return domain.Result{}, false
	}

	result, err := decodeEntry(raw)
	if err != nil {
		log.Warn("corrupt cache entry, removing", slog.String("error", err.Error()))
		if rmErr := c.store.Remove(ctx, key); rmErr != nil {
			log.Warn("failed to remove corrupt cache entry", slog.String("error", rmErr.Error()))
		}
		return domain.Result{}, false
	}

	return result, true
}

// Store saves result under req. Failures are logged and otherwise ignored.
func (c *ResponseCache) Store(ctx context.Context, req domain.Request, result domain.Result) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	// An empty result must still carry a products array to read back as a hit.
	if result.Products == nil {
		result.Products = []domain.ProductTrend{}
	}
	b, err := json.Marshal(result)
	if err != nil {
		log.Warn("failed to encode result for cache", slog.String("error", err.Error()))
		return
	}
	if err := c.store.Set(ctx, Key(req), string(b)); err != nil {
		log.Warn("cache write failed", slog.String("error", err.Error()))
	}
}

var errMissingProducts = errors.New("cache entry has no products array")

// cachedEntry mirrors domain.Result with a pointer so a missing or null
// products field can be told apart from an empty list.
type cachedEntry struct {
	Products *[]domain.ProductTrend    `json:"products"`
	Sources  []domain.WebSource        `json:"sources"`
	Insights *domain.StrategicInsights `json:"insights,omitempty"`
}

func decodeEntry(raw string) (domain.Result, error) {
	var entry cachedEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return domain.Result{}, err
	}
	if entry.Products == nil {
		return domain.Result{}, errMissingProducts
	}
	return domain.Result{
		Products: *entry.Products,
		Sources:  entry.Sources,
		Insights: entry.Insights,
	}, nil
}

// Key is the canonical serialization of req: a JSON object with the fields
// in the fixed order country, category, timeRange, listSize,
// businessDescription. listSize is omitted when zero and
// businessDescription when empty; values are not trimmed.
func Key(req domain.Request) string {
	var b strings.Builder
	b.WriteString(`{"country":`)
	writeString(&b, req.Country)
	b.WriteString(`,"category":`)
	writeString(&b, req.Category)
	b.WriteString(`,"timeRange":`)
	writeString(&b, req.TimeRange)
	if req.ListSize != 0 {
		b.WriteString(`,"listSize":`)
		b.WriteString(strconv.Itoa(req.ListSize))
	}
	if req.BusinessContext != "" {
		b.WriteString(`,"businessDescription":`)
		writeString(&b, req.BusinessContext)
	}
	b.WriteByte('}')
	return b.String()
}

func writeString(b *strings.Builder, s string) {
	// Marshalling a string cannot fail.
	enc, _ := json.Marshal(s)
	b.Write(enc)
}
