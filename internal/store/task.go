package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/plannerapp/planner-server/internal/domain"
)

// CreateTask creates a task row and indexes it for search.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		return fmt.Errorf("task ID is required")
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityNormal
	}
	task.InitTimestamps()

	if err := s.Tasks.Create(ctx, task.ID, task); err != nil {
		return err
	}

	s.indexTask(ctx, task)
	return nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.Tasks.Get(ctx, taskID)
}

// GetTasksForOwner returns all tasks owned by a user.
func (s *Store) GetTasksForOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	return s.Tasks.FindByIndex(ctx, "owner", ownerID)
}

// GetSubtasks returns the direct children of a task.
func (s *Store) GetSubtasks(ctx context.Context, parentTaskID string) ([]*domain.Task, error) {
	return s.Tasks.FindByIndex(ctx, "parent", parentTaskID)
}

// UpdateTask updates a task row and re-indexes it for search.
func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	task.Touch()
	if err := s.Tasks.Update(ctx, task.ID, task); err != nil {
		return err
	}

	s.indexTask(ctx, task)
	return nil
}

// DeleteTask deletes a task, detaches its children (their parent becomes
// empty), and removes its category attachments and plan links.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	// Detach children rather than deleting them.
	children, err := s.Tasks.FindByIndex(ctx, "parent", taskID)
	if err != nil {
		return fmt.Errorf("list subtasks of %s: %w", taskID, err)
	}
	for _, child := range children {
		child.ParentTaskID = ""
		child.Touch()
		if err := s.Tasks.Update(ctx, child.ID, child); err != nil {
			return fmt.Errorf("detach subtask %s: %w", child.ID, err)
		}
	}

	// Category attachments.
	links, err := s.TaskCategories.FindByIndex(ctx, "task", taskID)
	if err != nil {
		return fmt.Errorf("list attachments for task %s: %w", taskID, err)
	}
	for _, link := range links {
		if err := s.TaskCategories.Delete(ctx, link.ID); err != nil {
			return fmt.Errorf("delete attachment %s: %w", link.ID, err)
		}
	}

	// Plan links.
	planLinks, err := s.PlanTasks.FindByIndex(ctx, "task", taskID)
	if err != nil {
		return fmt.Errorf("list plan links for task %s: %w", taskID, err)
	}
	for _, link := range planLinks {
		if err := s.PlanTasks.Delete(ctx, link.ID); err != nil {
			return fmt.Errorf("delete plan link %s: %w", link.ID, err)
		}
	}

	if err := s.Tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteTask(ctx, taskID); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove task from search index", "task_id", taskID, "error", err)
		}
	}

	return nil
}

// AttachCategory links a category to a task. The (task, category) pair is
// unique; re-attaching fails with ErrAlreadyExists.
func (s *Store) AttachCategory(ctx context.Context, link *domain.TaskCategory) error {
	if link.ID == "" {
		return fmt.Errorf("attachment ID is required")
	}
	link.InitTimestamps()
	return s.TaskCategories.Create(ctx, link.ID, link)
}

// DetachCategory removes a task-category link. Idempotent.
func (s *Store) DetachCategory(ctx context.Context, taskID, categoryID string) error {
	link, err := s.TaskCategories.GetByIndex(ctx, "task_category", taskID+"|"+categoryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return s.TaskCategories.Delete(ctx, link.ID)
}

// GetCategoriesForTask returns the categories attached to a task.
func (s *Store) GetCategoriesForTask(ctx context.Context, taskID string) ([]*domain.Category, error) {
	links, err := s.TaskCategories.FindByIndex(ctx, "task", taskID)
	if err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(links))
	for _, link := range links {
		category, err := s.Categories.Get(ctx, link.CategoryID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *Store) indexTask(ctx context.Context, task *domain.Task) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexTask(ctx, task); err != nil && s.logger != nil {
		s.logger.Warn("failed to index task", "task_id", task.ID, "error", err)
	}
}
