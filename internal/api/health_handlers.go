package api

import (
	"net/http"

	"github.com/plannerapp/planner-server/internal/http/response"
)

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status string `json:"status"`
}

// handleHealthCheck reports server liveness. Public, no auth.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, HealthStatus{Status: "ok"}, s.logger)
}
