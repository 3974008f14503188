package api

import (
	"bytes"
	"encoding/json/v2"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plannerapp/planner-server/internal/http/response"
	"github.com/plannerapp/planner-server/internal/search"
	"github.com/plannerapp/planner-server/internal/service"
)

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=500"`
	Description  string     `json:"description" validate:"max=5000"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low normal high"`
	ParentTaskID string     `json:"parent_task_id"`
	DueAt        *time.Time `json:"due_at"`
	IsAllDay     bool       `json:"is_all_day"`
}

// UpdateTaskRequest represents the request body for updating a task.
// Absent fields are left unchanged; an empty parent_task_id detaches the
// task from its parent.
type UpdateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=500"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low normal high"`
	Status       *string    `json:"status" validate:"omitempty,oneof=pending completed snoozed"`
	ParentTaskID *string    `json:"parent_task_id"`
	DueAt        *time.Time `json:"due_at"`
	IsAllDay     *bool      `json:"is_all_day"`
}

// SnoozeTaskRequest represents the optional request body for snoozing a
// task. Without a body the task is snoozed indefinitely.
type SnoozeTaskRequest struct {
	Until *time.Time `json:"until"`
}

// AttachCategoryRequest represents the request body for tagging a task.
type AttachCategoryRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
}

// handleCreateTask creates a new task owned by the caller.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateTaskRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	task, err := s.taskService.Create(ctx, getUserID(ctx), service.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		ParentTaskID: req.ParentTaskID,
		DueAt:        req.DueAt,
		IsAllDay:     req.IsAllDay,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, task, s.logger)
}

// handleListTasks returns views of every task the caller can see.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	views, err := s.taskService.List(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, views, s.logger)
}

// handleGetTask returns a single task view with categories and subtasks.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := s.taskService.Get(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, view, s.logger)
}

// handleUpdateTask applies field changes to a task.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateTaskRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	view, err := s.taskService.Update(ctx, chi.URLParam(r, "id"), getUserID(ctx), service.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       req.Status,
		ParentTaskID: req.ParentTaskID,
		DueAt:        req.DueAt,
		IsAllDay:     req.IsAllDay,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, view, s.logger)
}

// handleDeleteTask deletes a task; its subtasks are detached, not deleted.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.taskService.Delete(ctx, chi.URLParam(r, "id"), getUserID(ctx)); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleCompleteTask marks a task completed and records the caller's streak.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := s.taskService.Complete(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, view, s.logger)
}

// handleSnoozeTask snoozes a task. The body is optional: a bare POST
// snoozes indefinitely, a body with "until" sets the wake time.
func (s *Server) handleSnoozeTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SnoozeTaskRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			response.BadRequest(w, "Invalid request body", s.logger)
			return
		}
	}

	view, err := s.taskService.Snooze(ctx, chi.URLParam(r, "id"), getUserID(ctx), req.Until)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, view, s.logger)
}

// handleAttachCategory tags a task with one of the caller's categories.
func (s *Server) handleAttachCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AttachCategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.taskService.AttachCategory(ctx, chi.URLParam(r, "id"), getUserID(ctx), req.CategoryID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleDetachCategory removes a category tag from a task.
func (s *Server) handleDetachCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := s.taskService.DetachCategory(ctx, chi.URLParam(r, "id"), getUserID(ctx), chi.URLParam(r, "categoryID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleSearchTasks runs a full-text search over the caller's visible tasks.
func (s *Server) handleSearchTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, "Query parameter 'q' is required", s.logger)
		return
	}

	params := search.DefaultSearchParams()
	params.Query = query
	if statuses, ok := r.URL.Query()["status"]; ok {
		params.Statuses = statuses
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 200 {
			response.BadRequest(w, "Limit must be between 1 and 200", s.logger)
			return
		}
		params.Limit = limit
	}

	result, err := s.searchService.Search(ctx, getUserID(ctx), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
