package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"threadcart/internal/model"

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
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps domain errors onto HTTP status codes. Anything
// unrecognised becomes a 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var missing *model.MissingItemsError
	if errors.As(err, &missing) {
		logger.Warn().Strs("missing", missing.Missing).Msg("unresolvable cart items")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeProductNotFound,
			Message: missing.Error(),
			Missing: missing.Missing,
		})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusFor(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected service error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeEmailInUse:
		return http.StatusConflict
	case model.ErrCodeInvalidLogin:
		return http.StatusUnauthorized
	case model.ErrCodeNotConfigured:
		return http.StatusServiceUnavailable
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
