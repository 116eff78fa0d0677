package handler

import (
	"net/http"

	"carbwise/internal/model"
	"carbwise/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MealHandler handles meal estimates, glucose estimates and the meal log.
type MealHandler struct {
	service service.MealService
	logger  zerolog.Logger
}

// NewMealHandler creates a new meal handler.
func NewMealHandler(service service.MealService, logger zerolog.Logger) *MealHandler {
	return &MealHandler{
		service: service,
		logger:  logger.With().Str("handler", "meal").Logger(),
	}
}

// Estimate handles POST /api/meals/estimate requests.
func (h *MealHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req model.MealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	est, err := h.service.Estimate(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to estimate meal", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, est)
}

// EstimateGlucose handles POST /api/glucose/estimate requests.
func (h *MealHandler) EstimateGlucose(w http.ResponseWriter, r *http.Request) {
	var req model.GlucoseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	est, err := h.service.EstimateGlucose(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to estimate glucose impact", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, est)
}

// Create handles POST /api/meals requests.
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.MealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "meal must contain at least one item", h.logger)
		return
	}

	meal, err := h.service.Save(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to save meal", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, meal)
}

// GetByID handles GET /api/meals/{id} requests.
func (h *MealHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "meal ID is required", h.logger)
		return
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid meal ID format", h.logger)
		return
	}

	meal, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve meal", h.logger)
		return
	}

	if meal == nil {
		writeError(w, http.StatusNotFound, "meal not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, meal)
}
