package store

import (
	"context"
	"fmt"

	"github.com/plannerapp/planner-server/internal/domain"
)

// CreateCategory creates a category. The (owner, name) pair is unique;
// a duplicate fails with ErrAlreadyExists inside the write transaction.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	if category.ID == "" {
		return fmt.Errorf("category ID is required")
	}
	if category.Color == "" {
		category.Color = domain.DefaultCategoryColor
	}
	category.InitTimestamps()
	return s.Categories.Create(ctx, category.ID, category)
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.Categories.Get(ctx, categoryID)
}

// GetCategoriesForOwner returns all categories owned by a user.
func (s *Store) GetCategoriesForOwner(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	return s.Categories.FindByIndex(ctx, "owner", ownerID)
}

// UpdateCategory updates a category. Renaming onto a taken (owner, name)
// pair fails with ErrAlreadyExists.
func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	category.Touch()
	return s.Categories.Update(ctx, category.ID, category)
}

// DeleteCategory deletes a category and detaches it from all tasks.
func (s *Store) DeleteCategory(ctx context.Context, categoryID string) error {
	links, err := s.TaskCategories.FindByIndex(ctx, "category", categoryID)
	if err != nil {
		return fmt.Errorf("list attachments for category %s: %w", categoryID, err)
	}
	for _, link := range links {
		if err := s.TaskCategories.Delete(ctx, link.ID); err != nil {
			return fmt.Errorf("delete attachment %s: %w", link.ID, err)
		}
	}

	return s.Categories.Delete(ctx, categoryID)
}
