package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/id"
	"github.com/plannerapp/planner-server/internal/store"
)

// CategoryService manages user-owned categories. Everything is scoped to
// the owner; categories are never shared.
type CategoryService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store *store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: logger,
	}
}

// Create creates a category for the caller. Duplicate names per owner are
// rejected by the storage layer's unique index.
func (s *CategoryService) Create(ctx context.Context, ownerID, name, color string) (*domain.Category, error) {
	category := &domain.Category{
		OwnerID: ownerID,
		Name:    name,
		Color:   color,
	}

	categoryID, err := id.Generate("cat")
	if err != nil {
		return nil, errors.Internal("generate category ID").WithCause(err)
	}
	category.ID = categoryID

	if err := s.store.CreateCategory(ctx, category); err != nil {
		if stderrors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Validationf("category %q already exists", name)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

// Get returns one of the caller's categories. Other users' categories read
// as not found.
func (s *CategoryService) Get(ctx context.Context, categoryID, userID string) (*domain.Category, error) {
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("category %s not found", categoryID)
		}
		return nil, err
	}
	if category.OwnerID != userID {
		return nil, errors.NotFoundf("category %s not found", categoryID)
	}

	return category, nil
}

// List returns all categories owned by the caller.
func (s *CategoryService) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	return s.store.GetCategoriesForOwner(ctx, userID)
}

// Update renames or recolors a category.
func (s *CategoryService) Update(ctx context.Context, categoryID, userID string, name, color *string) (*domain.Category, error) {
	category, err := s.Get(ctx, categoryID, userID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		category.Name = *name
	}
	if color != nil {
		category.Color = *color
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		if stderrors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Validationf("category %q already exists", category.Name)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// Delete removes a category and detaches it from all tasks.
func (s *CategoryService) Delete(ctx context.Context, categoryID, userID string) error {
	if _, err := s.Get(ctx, categoryID, userID); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.Info("category deleted", "category_id", categoryID, "owner_id", userID)
	return nil
}
