package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"menu-digitizer/internal/model"

	"github.com/rs/zerolog"
)

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

// writeServiceError maps a service error to a status code. Domain errors
// carry their own message; anything else is reported as fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, http.StatusInternalServerError, fallback, logger)
		return
	}

	status := statusFor(de.Code)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", de.Code).Msg("upstream failure")
	}
	writeError(w, status, de.Message, logger)
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeImageRequired,
		model.ErrCodeImageTooLarge,
		model.ErrCodeUnsupportedImage,
		model.ErrCodeItemNameRequired,
		model.ErrCodeInvalidStep,
		model.ErrCodeInvalidIndex,
		model.ErrCodeInvalidField,
		model.ErrCodeInvalidDragID,
		model.ErrCodeNoMenuData:
		return http.StatusBadRequest
	case model.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case model.ErrCodeStaleDrag, model.ErrCodeExtractionInProgress:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pathIndex reads a non-negative integer path parameter.
func pathIndex(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
