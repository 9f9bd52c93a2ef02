package server

import (
	"context"
	"net/http"
	"time"
)

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// handleReadiness verifies the server accepts traffic and the database
// responds. Kubernetes stops routing to the pod when this fails.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"ready": "ok", "database": "ok"}
	healthy := true

	if !s.ready.Load() {
		checks["ready"] = "shutting down"
		healthy = false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.Health(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready", Checks: checks})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Checks: checks})
}
