package handler

import (
	"net/http"
	"strings"

	"carbwise/internal/service"

	"github.com/rs/zerolog"
)

// FoodHandler handles catalog queries.
type FoodHandler struct {
	service service.FoodService
	logger  zerolog.Logger
}

// NewFoodHandler creates a new food handler.
func NewFoodHandler(service service.FoodService, logger zerolog.Logger) *FoodHandler {
	return &FoodHandler{
		service: service,
		logger:  logger.With().Str("handler", "food").Logger(),
	}
}

// Search handles GET /api/foods/search?q=&exclude= requests. exclude may be
// repeated.
func (h *FoodHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	exclude := r.URL.Query()["exclude"]

	results, err := h.service.Search(r.Context(), query, exclude)
	if err != nil {
		writeServiceError(w, err, "failed to search foods", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// Lookup handles GET /api/foods/lookup?description= requests.
func (h *FoodHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	description := strings.TrimSpace(r.URL.Query().Get("description"))
	if description == "" {
		writeError(w, http.StatusBadRequest, "description is required", h.logger)
		return
	}

	rec, err := h.service.Lookup(r.Context(), description)
	if err != nil {
		writeServiceError(w, err, "failed to look up food", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Portions handles GET /api/portions?description= requests.
func (h *FoodHandler) Portions(w http.ResponseWriter, r *http.Request) {
	description := strings.TrimSpace(r.URL.Query().Get("description"))
	if description == "" {
		writeError(w, http.StatusBadRequest, "description is required", h.logger)
		return
	}

	options, err := h.service.Portions(r.Context(), description)
	if err != nil {
		writeServiceError(w, err, "failed to list portions", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, options)
}

// ComparePortions handles GET /api/portions/compare?description=&from=&to= requests.
func (h *FoodHandler) ComparePortions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	description := strings.TrimSpace(q.Get("description"))
	from, to := q.Get("from"), q.Get("to")
	if description == "" || from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "description, from and to are required", h.logger)
		return
	}

	cmp, err := h.service.ComparePortions(r.Context(), description, from, to)
	if err != nil {
		writeServiceError(w, err, "failed to compare portions", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cmp)
}
