package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plannerapp/planner-server/internal/http/response"
	"github.com/plannerapp/planner-server/internal/store"
)

// handleListBadges returns the global badge catalog, cursor-paginated.
func (s *Server) handleListBadges(w http.ResponseWriter, r *http.Request) {
	params := store.DefaultPaginationParams()
	params.Cursor = r.URL.Query().Get("cursor")
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			response.BadRequest(w, "Limit must be a positive integer", s.logger)
			return
		}
		params.Limit = limit
	}

	page, err := s.badgeService.ListBadges(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetBadge returns a single catalog badge by ID.
func (s *Server) handleGetBadge(w http.ResponseWriter, r *http.Request) {
	badge, err := s.badgeService.GetBadge(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, badge, s.logger)
}

// handleListUserBadges returns the caller's badge awards.
func (s *Server) handleListUserBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	awards, err := s.badgeService.ListAwards(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, awards, s.logger)
}

// handleGetUserBadge returns a single badge award, scoped to the caller.
func (s *Server) handleGetUserBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	award, err := s.badgeService.GetAward(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, award, s.logger)
}
