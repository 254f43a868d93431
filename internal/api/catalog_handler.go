package api

import (
	"net/http"

	"github.com/phrazzld/trend-finder/internal/api/shared"
	"github.com/phrazzld/trend-finder/internal/domain"
)

// CatalogHandler serves the filter enumerations.
type CatalogHandler struct {
	catalog domain.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog domain.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GetCatalog handles GET /api/catalog.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.catalog)
}
