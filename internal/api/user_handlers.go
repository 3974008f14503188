package api

import (
	"net/http"

	"github.com/plannerapp/planner-server/internal/http/response"
)

// handleGetCurrentUser returns the authenticated user's profile.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.userService.Get(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleDeleteCurrentUser wipes the caller's account: tasks, categories,
// streaks, owned plans, memberships, awards, and calendar links.
func (s *Server) handleDeleteCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.userService.Delete(ctx, getUserID(ctx)); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
