package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"carbwise/internal/catalog"
	"carbwise/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeServiceError maps a service error to a status code and writes it.
// Domain errors keep their code in the response body.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	status, code := statusFor(err)

	message := fallback
	if status != http.StatusInternalServerError {
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("handler error")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

func statusFor(err error) (int, string) {
	if errors.Is(err, catalog.ErrReloadInProgress) {
		return http.StatusConflict, model.ErrCodeReloadInProgress
	}

	var de *model.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, model.ErrCodeInternalError
	}

	switch de.Code {
	case model.ErrCodeFoodNotFound:
		return http.StatusNotFound, de.Code
	case model.ErrCodeCatalogNotLoaded:
		return http.StatusServiceUnavailable, de.Code
	case model.ErrCodeCatalogLoad:
		return http.StatusInternalServerError, de.Code
	case model.ErrCodeInvalidPortionLabel,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidServingSize,
		model.ErrCodeInvalidGrams,
		model.ErrCodeInvalidSensitivity,
		model.ErrCodeInvalidCarbs,
		model.ErrCodeInvalidBaselineGlucose,
		model.ErrCodeInvalidCarbBasis:
		return http.StatusBadRequest, de.Code
	default:
		return http.StatusInternalServerError, model.ErrCodeInternalError
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
