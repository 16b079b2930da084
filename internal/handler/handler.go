package handler

import (
	"encoding/json"
	"net/http"

	"shopkart/internal/middleware"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

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
	writeJSON(w, status, ErrorResponse{Error: message})
}

// authedUser extracts the authenticated user's id placed in the request
// context by the auth middleware. A missing id means the route was wired
// outside the auth chain.
func authedUser(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", logger)
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the trailing path segment after prefix as a uuid.
func pathID(r *http.Request, prefix string) (uuid.UUID, bool) {
	if len(r.URL.Path) <= len(prefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(r.URL.Path[len(prefix):])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
