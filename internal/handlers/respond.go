package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/railqa/railcheck/internal/models"
	"github.com/railqa/railcheck/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// sendJSON writes a JSON response with the given status code
func sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// statusForError maps the error taxonomy onto HTTP status codes:
// configuration errors are the caller's fault, collaborator failures are
// gateway errors, anything else is internal.
func statusForError(err error) int {
	var external *services.ExternalServiceError
	switch {
	case errors.Is(err, models.ErrUnsupportedRailcard),
		errors.Is(err, models.ErrInvalidDuration),
		errors.Is(err, models.ErrInvalidBoundary):
		return http.StatusBadRequest
	case errors.As(err, &external):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
