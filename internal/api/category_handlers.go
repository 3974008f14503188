package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plannerapp/planner-server/internal/http/response"
)

// CreateCategoryRequest represents the request body for creating a category.
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor6"`
}

// UpdateCategoryRequest represents the request body for updating a category.
// Absent fields are left unchanged.
type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,hexcolor6"`
}

// handleCreateCategory creates a new category owned by the caller.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	var req CreateCategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.categoryService.Create(ctx, userID, req.Name, req.Color)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, category, s.logger)
}

// handleListCategories returns the caller's categories.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := s.categoryService.List(ctx, getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, categories, s.logger)
}

// handleGetCategory returns a single category by ID.
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, err := s.categoryService.Get(ctx, chi.URLParam(r, "id"), getUserID(ctx))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, category, s.logger)
}

// handleUpdateCategory applies field changes to a category.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateCategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.categoryService.Update(ctx, chi.URLParam(r, "id"), getUserID(ctx), req.Name, req.Color)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, category, s.logger)
}

// handleDeleteCategory deletes a category and detaches it from all tasks.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.categoryService.Delete(ctx, chi.URLParam(r, "id"), getUserID(ctx)); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
