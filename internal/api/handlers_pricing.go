package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// handlePricingHistory returns recent comparable sales for an item
func (s *Server) handlePricingHistory(w http.ResponseWriter, r *http.Request) {
	itemName := mux.Vars(r)["item_name"]
	respondJSON(w, http.StatusOK, s.pricingService.History(itemName))
}

// handlePricingEstimate returns a condition-scaled price range suggestion
func (s *Server) handlePricingEstimate(w http.ResponseWriter, r *http.Request) {
	itemName := r.URL.Query().Get("item_name")
	condition, _ := strconv.Atoi(r.URL.Query().Get("condition"))

	respondJSON(w, http.StatusOK, s.pricingService.Estimate(itemName, condition))
}
