package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/flipperzap/internal/errors"
	"github.com/flipperzap/internal/logging"
)

// ErrorResponse is the client-facing API error body: the message and nothing
// else. Error categorization stays server-side, in logs and status mapping.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeError maps a service error to its HTTP response. Unknown errors become
// a generic 500 with the cause logged server-side only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if catErr, ok := err.(*apperrors.CategorizedError); ok {
		if catErr.StatusCode == http.StatusInternalServerError {
			logging.FromContext(r.Context()).WithError(err).Error("Request failed")
			respondError(w, catErr.StatusCode, "An internal error occurred")
			return
		}
		respondError(w, catErr.StatusCode, catErr.Message)
		return
	}

	logging.FromContext(r.Context()).WithError(err).Error("Request failed")
	respondError(w, http.StatusInternalServerError, "An internal error occurred")
}

// parseJSONBody parses a JSON request body.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
