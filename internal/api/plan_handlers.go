package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/http/response"
)

// CreatePlanRequest represents the request body for creating a shared plan.
type CreatePlanRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdatePlanRequest represents the request body for updating a plan.
type UpdatePlanRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// AddPlanMemberRequest represents the request body for adding a member.
type AddPlanMemberRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	Permission string `json:"permission" validate:"omitempty,oneof=view edit"`
}

// UpdatePlanMemberRequest represents the request body for changing a
// member's permission.
type UpdatePlanMemberRequest struct {
	Permission string `json:"permission" validate:"required,oneof=view edit"`
}

// AddPlanTaskRequest represents the request body for linking a task.
type AddPlanTaskRequest struct {
	TaskID string `json:"task_id" validate:"required"`
}

// handleCreatePlan creates a new shared plan owned by the caller.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePlanRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	plan, err := s.sharingService.CreatePlan(ctx, getUserID(ctx), req.Name, req.Description)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, plan, s.logger)
}

// handleListPlans returns plans the caller owns or is a member of.
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plans, err := s.sharingService.VisiblePlans(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, plans, s.logger)
}

// handleGetPlan returns a single plan by ID.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plan, err := s.sharingService.GetPlan(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, plan, s.logger)
}

// handleUpdatePlan applies field changes to a plan. Owner only.
func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdatePlanRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	plan, err := s.sharingService.UpdatePlan(ctx, chi.URLParam(r, "id"), getUserID(ctx), req.Name, req.Description)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, plan, s.logger)
}

// handleDeletePlan deletes a plan with its memberships and task links.
// Owner only; the tasks themselves survive.
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.sharingService.DeletePlan(ctx, chi.URLParam(r, "id"), getUserID(ctx)); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListPlanMembers returns a plan's membership list.
func (s *Server) handleListPlanMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	members, err := s.sharingService.ListMembers(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, members, s.logger)
}

// handleAddPlanMember adds a user to a plan. Owner only.
func (s *Server) handleAddPlanMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddPlanMemberRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	permission := domain.PermissionView
	if req.Permission != "" {
		permission = domain.PlanPermission(req.Permission)
	}

	member, err := s.sharingService.AddMember(ctx, chi.URLParam(r, "id"), getUserID(ctx), req.UserID, permission)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, member, s.logger)
}

// handleUpdatePlanMember changes a member's permission. Owner only.
func (s *Server) handleUpdatePlanMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdatePlanMemberRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	member, err := s.sharingService.UpdateMemberPermission(ctx, chi.URLParam(r, "id"), getUserID(ctx),
		chi.URLParam(r, "userID"), domain.PlanPermission(req.Permission))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, member, s.logger)
}

// handleRemovePlanMember removes a member. The owner can remove anyone;
// members can remove themselves.
func (s *Server) handleRemovePlanMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := s.sharingService.RemoveMember(ctx, chi.URLParam(r, "id"), getUserID(ctx), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListPlanTasks returns the tasks linked to a plan.
func (s *Server) handleListPlanTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := s.sharingService.ListPlanTasks(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tasks, s.logger)
}

// handleAddPlanTask links a task to a plan. Owner only.
func (s *Server) handleAddPlanTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddPlanTaskRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	link, err := s.sharingService.AddTaskToPlan(ctx, chi.URLParam(r, "id"), getUserID(ctx), req.TaskID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, link, s.logger)
}

// handleRemovePlanTask unlinks a task from a plan. Owner only.
func (s *Server) handleRemovePlanTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := s.sharingService.RemoveTaskFromPlan(ctx, chi.URLParam(r, "id"), getUserID(ctx), chi.URLParam(r, "taskID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
