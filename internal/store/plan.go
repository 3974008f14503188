package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/plannerapp/planner-server/internal/domain"
)

// CreatePlan creates a plan row.
func (s *Store) CreatePlan(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == "" {
		return fmt.Errorf("plan ID is required")
	}
	plan.InitTimestamps()
	return s.Plans.Create(ctx, plan.ID, plan)
}

// GetPlan retrieves a plan by ID.
func (s *Store) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	return s.Plans.Get(ctx, planID)
}

// GetPlansForOwner returns all plans owned by a user.
func (s *Store) GetPlansForOwner(ctx context.Context, ownerID string) ([]*domain.Plan, error) {
	return s.Plans.FindByIndex(ctx, "owner", ownerID)
}

// UpdatePlan updates a plan row.
func (s *Store) UpdatePlan(ctx context.Context, plan *domain.Plan) error {
	plan.Touch()
	return s.Plans.Update(ctx, plan.ID, plan)
}

// DeletePlan deletes a plan along with its memberships and task links.
// The linked tasks themselves are untouched.
func (s *Store) DeletePlan(ctx context.Context, planID string) error {
	members, err := s.PlanMembers.FindByIndex(ctx, "plan", planID)
	if err != nil {
		return fmt.Errorf("list members of plan %s: %w", planID, err)
	}
	for _, member := range members {
		if err := s.PlanMembers.Delete(ctx, member.ID); err != nil {
			return fmt.Errorf("delete member %s: %w", member.ID, err)
		}
	}

	links, err := s.PlanTasks.FindByIndex(ctx, "plan", planID)
	if err != nil {
		return fmt.Errorf("list task links of plan %s: %w", planID, err)
	}
	for _, link := range links {
		if err := s.PlanTasks.Delete(ctx, link.ID); err != nil {
			return fmt.Errorf("delete task link %s: %w", link.ID, err)
		}
	}

	return s.Plans.Delete(ctx, planID)
}

// CreatePlanMember adds a membership row. The (plan, user) pair is unique.
func (s *Store) CreatePlanMember(ctx context.Context, member *domain.PlanMember) error {
	if member.ID == "" {
		return fmt.Errorf("membership ID is required")
	}
	if member.Permission == "" {
		member.Permission = domain.PermissionView
	}
	member.InitTimestamps()
	return s.PlanMembers.Create(ctx, member.ID, member)
}

// GetPlanMember retrieves the membership of a user in a plan.
func (s *Store) GetPlanMember(ctx context.Context, planID, userID string) (*domain.PlanMember, error) {
	return s.PlanMembers.GetByIndex(ctx, "plan_user", planID+"|"+userID)
}

// GetMembersForPlan returns all memberships of a plan.
func (s *Store) GetMembersForPlan(ctx context.Context, planID string) ([]*domain.PlanMember, error) {
	return s.PlanMembers.FindByIndex(ctx, "plan", planID)
}

// GetMembershipsForUser returns all plans a user has been added to.
func (s *Store) GetMembershipsForUser(ctx context.Context, userID string) ([]*domain.PlanMember, error) {
	return s.PlanMembers.FindByIndex(ctx, "user", userID)
}

// UpdatePlanMember updates a membership row.
func (s *Store) UpdatePlanMember(ctx context.Context, member *domain.PlanMember) error {
	member.Touch()
	return s.PlanMembers.Update(ctx, member.ID, member)
}

// DeletePlanMember removes a user's membership from a plan. Idempotent.
func (s *Store) DeletePlanMember(ctx context.Context, planID, userID string) error {
	member, err := s.GetPlanMember(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return s.PlanMembers.Delete(ctx, member.ID)
}

// CreatePlanTask links a task into a plan. The (plan, task) pair is unique.
func (s *Store) CreatePlanTask(ctx context.Context, link *domain.PlanTask) error {
	if link.ID == "" {
		return fmt.Errorf("plan task link ID is required")
	}
	link.InitTimestamps()
	return s.PlanTasks.Create(ctx, link.ID, link)
}

// GetTasksForPlan returns the task rows linked into a plan.
func (s *Store) GetTasksForPlan(ctx context.Context, planID string) ([]*domain.Task, error) {
	links, err := s.PlanTasks.FindByIndex(ctx, "plan", planID)
	if err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(links))
	for _, link := range links {
		task, err := s.Tasks.Get(ctx, link.TaskID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetPlanLinksForTask returns the plan links referencing a task.
func (s *Store) GetPlanLinksForTask(ctx context.Context, taskID string) ([]*domain.PlanTask, error) {
	return s.PlanTasks.FindByIndex(ctx, "task", taskID)
}

// DeletePlanTask removes a task link from a plan. Idempotent.
func (s *Store) DeletePlanTask(ctx context.Context, planID, taskID string) error {
	link, err := s.PlanTasks.GetByIndex(ctx, "plan_task", planID+"|"+taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	return s.PlanTasks.Delete(ctx, link.ID)
}
