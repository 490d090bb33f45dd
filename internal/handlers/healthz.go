package handlers

import "net/http"

// HealthzResponse represents the health probe response
// swagger:model HealthzResponse
type HealthzResponse struct {
	// Status
	// default: ok
	Status string `json:"status"`
}

// NewHealthzHandler returns the liveness probe handler.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthzResponse
// @Router /healthz [get]
func NewHealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthzResponse{Status: "ok"})
	}
}
