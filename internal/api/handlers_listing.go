package api

import (
	"net/http"

	"github.com/gorilla/mux"

	apperrors "github.com/flipperzap/internal/errors"
	"github.com/flipperzap/internal/service"
)

// handleCreateListing creates a listing from a completed scan and, when
// autoList is set, publishes it to the requested marketplace.
func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	var input service.CreateListingInput
	if err := parseJSONBody(r, &input); err != nil {
		writeError(w, r, apperrors.NewInvalidInputError("invalid listing payload: "+err.Error()))
		return
	}

	listing, err := s.listingService.Create(r.Context(), userIDFrom(r), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, listing)
}

// handleListListings returns the caller's listings across all scans
func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	listings := s.listingService.ListByUser(r.Context(), userIDFrom(r))
	respondJSON(w, http.StatusOK, listings)
}

// handleListingsByScan returns the listings created from one scan
func (s *Server) handleListingsByScan(w http.ResponseWriter, r *http.Request) {
	scanID := mux.Vars(r)["scanId"]
	listings := s.listingService.ListByScan(r.Context(), scanID)
	respondJSON(w, http.StatusOK, listings)
}
