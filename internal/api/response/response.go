// Package response provides utilities for sending consistent HTTP responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ndewijer/portfolio-ledger/internal/apperrors"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent.
// Encoding errors are logged through the request logger but do not fail the response.
func RespondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
		}
	}
}

// RespondError sends a structured error response with the given status code.
//
// Example:
//
//	response.RespondError(w, r, http.StatusBadRequest, "invalid filter", err.Error())
func RespondError(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	RespondJSON(w, r, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// RespondErr maps err to a status code and sends it as an error response.
func RespondErr(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg(message)
	}
	RespondError(w, r, status, message, err.Error())
}

// StatusFor returns the HTTP status code for an application error.
func StatusFor(err error) int {
	var loadErr *apperrors.LoadError
	switch {
	case errors.Is(err, apperrors.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrSnapshotNotLoaded):
		return http.StatusServiceUnavailable
	case errors.As(err, &loadErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondContent sends a non-JSON body such as CSV, markdown or HTML.
func RespondContent(w http.ResponseWriter, r *http.Request, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write response body")
	}
}
