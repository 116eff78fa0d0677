package handler

import (
	"net/http"

	"carbwise/internal/service"

	"github.com/rs/zerolog"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalogLoaded"`
	Foods         int    `json:"foods"`
}

// CatalogHandler exposes catalog health, stats and reload.
type CatalogHandler struct {
	service service.FoodService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.FoodService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// Health handles GET /health. It always answers 200 so that a slow first
// load does not get the process restarted; catalogLoaded carries readiness.
func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.service.Stats()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		CatalogLoaded: stats.Loaded,
		Foods:         stats.Foods,
	})
}

// Stats handles GET /api/catalog requests.
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Stats())
}

// Reload handles POST /api/catalog/reload requests.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context()); err != nil {
		writeServiceError(w, err, "failed to reload catalog", h.logger)
		return
	}

	stats := h.service.Stats()
	h.logger.Info().Int("foods", stats.Foods).Str("source", stats.Source).Msg("catalog reloaded on request")
	writeJSON(w, http.StatusOK, stats)
}
