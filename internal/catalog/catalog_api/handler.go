package catalog_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-bakery/internal/catalog"
	"ms-bakery/internal/logger"
)

type Handler struct {
	CatalogService *catalog.Service
	Logger         *logger.Logger
}

func NewHandler(catalogService *catalog.Service, log *logger.Logger) *Handler {
	return &Handler{CatalogService: catalogService, Logger: log}
}

// ListFlavors returns every flavor, including retired ones. The storefront
// filters on the active flag so retired flavors still render on old orders.
func (h *Handler) ListFlavors(w http.ResponseWriter, r *http.Request) {
	flavors, err := h.CatalogService.Flavors()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListFlavors: %v", err))
		http.Error(w, "Failed to load flavors", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, flavors)
}

func (h *Handler) ListDesigns(w http.ResponseWriter, r *http.Request) {
	designs, err := h.CatalogService.Designs()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListDesigns: %v", err))
		http.Error(w, "Failed to load designs", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, designs)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to encode response: %v", err))
	}
}
