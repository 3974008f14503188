package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/http/response"
	"github.com/plannerapp/planner-server/internal/service"
)

// CreateCalendarSyncRequest represents the request body for linking a
// provider calendar. Tokens come from the client's out-of-band OAuth flow
// and are never echoed back.
type CreateCalendarSyncRequest struct {
	Provider       string `json:"provider" validate:"required,min=1,max=50"`
	ProviderUserID string `json:"provider_user_id" validate:"max=255"`
	CalendarID     string `json:"calendar_id" validate:"max=200"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
}

// UpdateCalendarSyncRequest represents the request body for updating a
// sync record.
type UpdateCalendarSyncRequest struct {
	CalendarID   *string `json:"calendar_id" validate:"omitempty,max=200"`
	AccessToken  *string `json:"access_token"`
	RefreshToken *string `json:"refresh_token"`
	Status       *string `json:"status" validate:"omitempty,oneof=active error paused"`
}

// handleCreateCalendarSync records a new provider link for the caller.
func (s *Server) handleCreateCalendarSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateCalendarSyncRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	sync, err := s.calendarService.Create(ctx, getUserID(ctx), service.CreateSyncInput{
		Provider:       req.Provider,
		ProviderUserID: req.ProviderUserID,
		CalendarID:     req.CalendarID,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, sync.View(), s.logger)
}

// handleListCalendarSyncs returns the caller's provider links.
func (s *Server) handleListCalendarSyncs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	syncs, err := s.calendarService.List(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	views := make([]domain.CalendarSyncView, 0, len(syncs))
	for _, sync := range syncs {
		views = append(views, sync.View())
	}

	response.Success(w, views, s.logger)
}

// handleGetCalendarSync returns a single sync record by ID.
func (s *Server) handleGetCalendarSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sync, err := s.calendarService.Get(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sync.View(), s.logger)
}

// handleUpdateCalendarSync applies field changes to a sync record.
func (s *Server) handleUpdateCalendarSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateCalendarSyncRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	sync, err := s.calendarService.Update(ctx, chi.URLParam(r, "id"), getUserID(ctx), service.UpdateSyncInput{
		CalendarID:   req.CalendarID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		Status:       req.Status,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sync.View(), s.logger)
}

// handleDeleteCalendarSync removes a provider link.
func (s *Server) handleDeleteCalendarSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.calendarService.Delete(ctx, chi.URLParam(r, "id"), getUserID(ctx)); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
