package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plannerapp/planner-server/internal/http/response"
)

// handleListStreaks returns the caller's daily streak records.
func (s *Server) handleListStreaks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	streaks, err := s.streakService.List(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, streaks, s.logger)
}

// handleGetStreak returns a single streak record by ID.
func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	streak, err := s.streakService.Get(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, streak, s.logger)
}
