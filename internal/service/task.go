package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/id"
	"github.com/plannerapp/planner-server/internal/store"
)

// TaskService manages task lifecycle: creation, updates, completion,
// snoozing, category tagging, and recursive view construction.
type TaskService struct {
	store   *store.Store
	sharing *SharingService
	streaks *StreakService
	logger  *slog.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(store *store.Store, sharing *SharingService, streaks *StreakService, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:   store,
		sharing: sharing,
		streaks: streaks,
		logger:  logger,
	}
}

// CreateTaskInput carries the writable fields for task creation.
type CreateTaskInput struct {
	Title        string
	Description  string
	Priority     string
	ParentTaskID string
	DueAt        *time.Time
	IsAllDay     bool
}

// Create creates a task owned by the caller. The parent, when given, must
// be one of the caller's own tasks.
func (s *TaskService) Create(ctx context.Context, ownerID string, input CreateTaskInput) (*domain.Task, error) {
	priority := domain.TaskPriorityNormal
	if input.Priority != "" {
		parsed, ok := domain.ParseTaskPriority(input.Priority)
		if !ok {
			return nil, errors.Validationf("invalid priority %q", input.Priority)
		}
		priority = parsed
	}

	if input.ParentTaskID != "" {
		parent, err := s.store.GetTask(ctx, input.ParentTaskID)
		if err != nil {
			if stderrors.Is(err, store.ErrNotFound) {
				return nil, errors.Validationf("parent task %s does not exist", input.ParentTaskID)
			}
			return nil, err
		}
		if parent.OwnerID != ownerID {
			return nil, errors.Validationf("parent task %s does not exist", input.ParentTaskID)
		}
	}

	task := &domain.Task{
		OwnerID:      ownerID,
		ParentTaskID: input.ParentTaskID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       domain.TaskStatusPending,
		Priority:     priority,
		DueAt:        input.DueAt,
		IsAllDay:     input.IsAllDay,
	}

	taskID, err := id.Generate("task")
	if err != nil {
		return nil, errors.Internal("generate task ID").WithCause(err)
	}
	task.ID = taskID

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "owner_id", ownerID)
	return task, nil
}

// Get returns a task view if the caller can see the task. Tasks outside
// the visible set read as not found.
func (s *TaskService) Get(ctx context.Context, taskID, userID string) (*domain.TaskView, error) {
	task, err := s.visibleTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	return s.buildView(ctx, task)
}

// List returns views of every task the caller can see.
func (s *TaskService) List(ctx context.Context, userID string) ([]*domain.TaskView, error) {
	tasks, err := s.sharing.ListVisibleTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		visible[task.ID] = true
	}

	views := make([]*domain.TaskView, 0, len(tasks))
	for _, task := range tasks {
		// Subtasks render inside their parent's view, but only when the
		// parent is itself visible to the caller. A shared subtask whose
		// parent stayed private still has to surface as a list root.
		if task.ParentTaskID != "" && visible[task.ParentTaskID] {
			continue
		}
		view, err := s.buildView(ctx, task)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return views, nil
}

// UpdateTaskInput carries the updatable fields. Nil means unchanged;
// ParentTaskID set to an empty string detaches the task from its parent.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Priority     *string
	Status       *string
	ParentTaskID *string
	DueAt        *time.Time
	IsAllDay     *bool
}

// Update applies field changes. The owner can always update; plan members
// need edit permission.
func (s *TaskService) Update(ctx context.Context, taskID, userID string, input UpdateTaskInput) (*domain.TaskView, error) {
	task, err := s.visibleTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	canEdit, err := s.sharing.CanEditTask(ctx, userID, task)
	if err != nil {
		return nil, err
	}
	if !canEdit {
		return nil, errors.Forbidden("edit permission required to update this task")
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		priority, ok := domain.ParseTaskPriority(*input.Priority)
		if !ok {
			return nil, errors.Validationf("invalid priority %q", *input.Priority)
		}
		task.Priority = priority
	}
	if input.Status != nil {
		status, ok := domain.ParseTaskStatus(*input.Status)
		if !ok {
			return nil, errors.Validationf("invalid status %q", *input.Status)
		}
		task.Status = status
	}
	if input.DueAt != nil {
		task.DueAt = input.DueAt
	}
	if input.IsAllDay != nil {
		task.IsAllDay = *input.IsAllDay
	}
	if input.ParentTaskID != nil {
		if err := s.validateParent(ctx, task, *input.ParentTaskID); err != nil {
			return nil, err
		}
		task.ParentTaskID = *input.ParentTaskID
	}

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return s.buildView(ctx, task)
}

// Delete removes a task. The owner can always delete; plan members need
// edit permission. Children are detached, not deleted.
func (s *TaskService) Delete(ctx context.Context, taskID, userID string) error {
	task, err := s.visibleTask(ctx, taskID, userID)
	if err != nil {
		return err
	}

	canEdit, err := s.sharing.CanEditTask(ctx, userID, task)
	if err != nil {
		return err
	}
	if !canEdit {
		return errors.Forbidden("edit permission required to delete this task")
	}

	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Info("task deleted", "task_id", taskID, "deleted_by", userID)
	return nil
}

// Complete marks a visible task completed and records a streak increment
// for the acting user on today's date.
func (s *TaskService) Complete(ctx context.Context, taskID, actorID string) (*domain.TaskView, error) {
	task, err := s.visibleTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task.Complete(now)

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}

	// The streak belongs to whoever completed the task, not the owner.
	if _, err := s.streaks.RecordCompletion(ctx, actorID, now); err != nil {
		return nil, fmt.Errorf("record completion streak: %w", err)
	}

	s.logger.Info("task completed", "task_id", taskID, "actor_id", actorID)
	return s.buildView(ctx, task)
}

// Snooze marks a visible task snoozed. The wake time is optional: when
// nil the task is snoozed indefinitely; when given it must lie in the
// future. No streak effect.
func (s *TaskService) Snooze(ctx context.Context, taskID, actorID string, until *time.Time) (*domain.TaskView, error) {
	task, err := s.visibleTask(ctx, taskID, actorID)
	if err != nil {
		return nil, err
	}

	if until != nil && !until.After(time.Now()) {
		return nil, errors.Validation("snooze time must be in the future")
	}

	task.Snooze(until)

	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("snooze task: %w", err)
	}

	return s.buildView(ctx, task)
}

// AttachCategory tags a task with a category the caller owns.
func (s *TaskService) AttachCategory(ctx context.Context, taskID, userID, categoryID string) error {
	task, err := s.visibleTask(ctx, taskID, userID)
	if err != nil {
		return err
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("category %s not found", categoryID)
		}
		return err
	}
	if category.OwnerID != userID {
		return errors.NotFoundf("category %s not found", categoryID)
	}

	link := &domain.TaskCategory{
		TaskID:     task.ID,
		CategoryID: categoryID,
	}

	linkID, err := id.Generate("taskcat")
	if err != nil {
		return errors.Internal("generate attachment ID").WithCause(err)
	}
	link.ID = linkID

	if err := s.store.AttachCategory(ctx, link); err != nil {
		if stderrors.Is(err, store.ErrAlreadyExists) {
			return errors.Validationf("category %s is already attached to this task", categoryID)
		}
		return fmt.Errorf("attach category: %w", err)
	}

	return nil
}

// DetachCategory removes a category tag from a task. Idempotent.
func (s *TaskService) DetachCategory(ctx context.Context, taskID, userID, categoryID string) error {
	task, err := s.visibleTask(ctx, taskID, userID)
	if err != nil {
		return err
	}

	return s.store.DetachCategory(ctx, task.ID, categoryID)
}

// visibleTask fetches a task and enforces visibility, translating both a
// missing row and an invisible one into the same not-found error.
func (s *TaskService) visibleTask(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("task %s not found", taskID)
		}
		return nil, err
	}

	visible, err := s.sharing.CanViewTask(ctx, userID, task)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, errors.NotFoundf("task %s not found", taskID)
	}

	return task, nil
}

// validateParent checks a proposed parent assignment: the parent must exist,
// belong to the task owner, and not create a cycle. Walking the ancestor
// chain of the proposed parent must never reach the task itself.
func (s *TaskService) validateParent(ctx context.Context, task *domain.Task, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == task.ID {
		return errors.Validation("a task cannot be its own parent")
	}

	parent, err := s.store.GetTask(ctx, parentID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return errors.Validationf("parent task %s does not exist", parentID)
		}
		return err
	}
	if parent.OwnerID != task.OwnerID {
		return errors.Validationf("parent task %s does not exist", parentID)
	}

	// Walk up from the proposed parent; reaching the task means a cycle.
	seen := make(map[string]bool)
	current := parent
	for current.ParentTaskID != "" {
		if current.ParentTaskID == task.ID {
			return errors.Validation("parent assignment would create a cycle")
		}
		if seen[current.ParentTaskID] {
			break
		}
		seen[current.ParentTaskID] = true

		current, err = s.store.GetTask(ctx, current.ParentTaskID)
		if err != nil {
			if stderrors.Is(err, store.ErrNotFound) {
				break
			}
			return err
		}
	}

	return nil
}

// buildView renders a task with its categories and recursively rendered
// subtasks. Each descendant appears exactly once.
func (s *TaskService) buildView(ctx context.Context, task *domain.Task) (*domain.TaskView, error) {
	seen := make(map[string]bool)
	return s.buildViewRec(ctx, task, seen)
}

func (s *TaskService) buildViewRec(ctx context.Context, task *domain.Task, seen map[string]bool) (*domain.TaskView, error) {
	seen[task.ID] = true

	view := &domain.TaskView{
		Task:       *task,
		Categories: []domain.Category{},
		Subtasks:   []domain.TaskView{},
	}

	categories, err := s.store.GetCategoriesForTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list categories for task %s: %w", task.ID, err)
	}
	for _, category := range categories {
		view.Categories = append(view.Categories, *category)
	}

	children, err := s.store.GetSubtasks(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list subtasks of %s: %w", task.ID, err)
	}
	for _, child := range children {
		if seen[child.ID] {
			continue
		}
		childView, err := s.buildViewRec(ctx, child, seen)
		if err != nil {
			return nil, err
		}
		view.Subtasks = append(view.Subtasks, *childView)
	}

	return view, nil
}
