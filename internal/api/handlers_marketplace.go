package api

import (
	"net/http"

	apperrors "github.com/flipperzap/internal/errors"
	"github.com/flipperzap/internal/service"
)

// handleMarketplaceConnections reports every supported marketplace with the
// caller's connection state.
func (s *Server) handleMarketplaceConnections(w http.ResponseWriter, r *http.Request) {
	statuses := s.connectionService.Status(r.Context(), userIDFrom(r))
	respondJSON(w, http.StatusOK, statuses)
}

// handleMarketplaceConnect links the caller to a marketplace. Connecting an
// already linked marketplace refreshes the stored credentials.
func (s *Server) handleMarketplaceConnect(w http.ResponseWriter, r *http.Request) {
	var input service.ConnectInput
	if err := parseJSONBody(r, &input); err != nil {
		writeError(w, r, apperrors.NewInvalidInputError("invalid connection payload: "+err.Error()))
		return
	}

	conn, err := s.connectionService.Connect(r.Context(), userIDFrom(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, conn)
}
