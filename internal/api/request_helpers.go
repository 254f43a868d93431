package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/trend-finder/internal/api/shared"
	"github.com/phrazzld/trend-finder/internal/domain"
	"github.com/phrazzld/trend-finder/internal/platform/logger"
	"github.com/phrazzld/trend-finder/internal/service/auth"
)

// requireCaller extracts the authenticated caller placed in the context by
// the authentication middleware. It writes a 401 and returns false when
// there is none.
func requireCaller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller, ok := shared.GetCaller(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("caller not found in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return domain.Caller{}, false
	}
	return caller, true
}

// sortProducts applies the optional "sort" and "order" query parameters.
func sortProducts(r *http.Request, products []domain.ProductTrend) []domain.ProductTrend {
	q := r.URL.Query()
	key := domain.ParseSortKey(q.Get("sort"))
	dir := domain.ParseSortDirection(q.Get("order"))
	if key == domain.SortByRank && dir == domain.Ascending {
		return products
	}
	logger.FromContext(r.Context()).Debug("sorting products",
		slog.String("sort", string(key)),
		slog.String("order", string(dir)))
	return domain.SortProducts(products, key, dir)
}
