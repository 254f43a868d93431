package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/trend-finder/internal/api/shared"
	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/service"
)

// TrendHandler handles trend lookups and quota reports.
type TrendHandler struct {
	trends  service.TrendService
	catalog domain.Catalog
	logger  *slog.Logger
	now     func() time.Time
}

// NewTrendHandler creates a new TrendHandler with the given dependencies.
func NewTrendHandler(trends service.TrendService, catalog domain.Catalog, log *slog.Logger) *TrendHandler {
	if trends == nil {
		panic("trends cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TrendHandler{
		trends:  trends,
		catalog: catalog,
		logger:  log.With(slog.String("component", "trend_handler")),
		now:     time.Now,
	}
}

// PostTrends handles POST /api/trends with the filters as a JSON body.
func (h *TrendHandler) PostTrends(w http.ResponseWriter, r *http.Request) {
	var req TrendsRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", ErrInvalidRequest, err), "")
		return
	}
	h.fetch(w, r, req)
}

// GetTrends handles GET /api/trends with the filters as query parameters,
// using the same names as the share fragment.
func (h *TrendHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	filters := domain.RequestFromValues(r.URL.Query())
	h.fetch(w, r, TrendsRequest{
		Country:             filters.Country,
		Category:            filters.Category,
		TimeRange:           filters.TimeRange,
		ListSize:            filters.ListSize,
		BusinessDescription: filters.BusinessContext,
	})
}

func (h *TrendHandler) fetch(w http.ResponseWriter, r *http.Request, body TrendsRequest) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	if err := shared.ValidateRequest(&body); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	req := h.catalog.Normalize(body.ToDomain())
	log.Debug("fetching trends",
		slog.String("country", req.Country),
		slog.String("category", req.Category),
		slog.String("time_range", req.TimeRange),
		slog.Int("list_size", req.ListSize),
		slog.Bool("personalized", req.Personalized()))

	result, err := h.trends.FetchTrends(r.Context(), caller, req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	products := sortProducts(r, result.Products)
	shared.RespondWithJSON(w, r, http.StatusOK, newTrendsResponse(req, result, products))
}

// GetUsage handles GET /api/usage.
func (h *TrendHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	d, err := h.trends.Usage(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read usage")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newUsageResponse(d, h.now()))
}
