package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"kasirkita/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Too late to change the response; nothing useful to do.
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// statusForCode maps a domain error code to an HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeOrderNotFound,
		model.ErrCodeProductNotFound,
		model.ErrCodeCategoryNotFound,
		model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeServiceError translates a service error into an HTTP response.
// Domain errors carry their own code and message; anything else is a
// generic 500 so internals never leak to the client.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger, overrides map[string]int) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		if override, ok := overrides[domainErr.Code]; ok {
			status = override
		}
		logger.Warn().
			Str("code", domainErr.Code).
			Str("error", domainErr.Message).
			Int("status", status).
			Msg("request rejected")
		writeJSON(w, status, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  model.ErrCodeInternalError,
	})
}
