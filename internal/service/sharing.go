// Package service provides the business logic layer: plans and sharing,
// tasks, categories, streaks, badges, and calendar sync.
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

// SharingService orchestrates plans, memberships, and task visibility.
//
// Visibility model: a task is visible to its owner and to every member of
// any plan the task is linked into. Members with edit permission may also
// mutate shared tasks; resources outside a caller's visible set read as
// not found, never as forbidden.
type SharingService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSharingService creates a new sharing service.
func NewSharingService(store *store.Store, logger *slog.Logger) *SharingService {
	return &SharingService{
		store:  store,
		logger: logger,
	}
}

// VisibleTaskIDs returns the deduplicated set of task IDs the user can see:
// tasks they own plus tasks linked into plans they belong to.
func (s *SharingService) VisibleTaskIDs(ctx context.Context, userID string) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	visible := make(map[string]bool)

	owned, err := s.store.GetTasksForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned tasks: %w", err)
	}
	for _, task := range owned {
		visible[task.ID] = true
	}

	memberships, err := s.store.GetMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	for _, membership := range memberships {
		links, err := s.store.PlanTasks.FindByIndex(ctx, "plan", membership.PlanID)
		if err != nil {
			return nil, fmt.Errorf("list tasks of plan %s: %w", membership.PlanID, err)
		}
		for _, link := range links {
			visible[link.TaskID] = true
		}
	}

	return visible, nil
}

// ListVisibleTasks returns every task the user can see, each exactly once.
func (s *SharingService) ListVisibleTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	visible, err := s.VisibleTaskIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(visible))
	for taskID := range visible {
		task, err := s.store.GetTask(ctx, taskID)
		if err != nil {
			if stderrors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// CanViewTask reports whether the user can see the task.
func (s *SharingService) CanViewTask(ctx context.Context, userID string, task *domain.Task) (bool, error) {
	if task.OwnerID == userID {
		return true, nil
	}

	links, err := s.store.GetPlanLinksForTask(ctx, task.ID)
	if err != nil {
		return false, fmt.Errorf("list plan links: %w", err)
	}
	for _, link := range links {
		_, err := s.store.GetPlanMember(ctx, link.PlanID, userID)
		if err == nil {
			return true, nil
		}
		if !stderrors.Is(err, store.ErrNotFound) {
			return false, err
		}
	}

	return false, nil
}

// CanEditTask reports whether the user may mutate the task: the owner
// always can; members need edit permission on a plan containing the task.
func (s *SharingService) CanEditTask(ctx context.Context, userID string, task *domain.Task) (bool, error) {
	if task.OwnerID == userID {
		return true, nil
	}

	links, err := s.store.GetPlanLinksForTask(ctx, task.ID)
	if err != nil {
		return false, fmt.Errorf("list plan links: %w", err)
	}
	for _, link := range links {
		member, err := s.store.GetPlanMember(ctx, link.PlanID, userID)
		if err != nil {
			if stderrors.Is(err, store.ErrNotFound) {
				continue
			}
			return false, err
		}
		if member.Permission.CanEdit() {
			return true, nil
		}
	}

	return false, nil
}

// CreatePlan creates a plan owned by the caller.
func (s *SharingService) CreatePlan(ctx context.Context, ownerID, name, description string) (*domain.Plan, error) {
	plan := &domain.Plan{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	}

	planID, err := id.Generate("plan")
	if err != nil {
		return nil, errors.Internal("generate plan ID").WithCause(err)
	}
	plan.ID = planID

	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	s.logger.Info("plan created", "plan_id", plan.ID, "owner_id", ownerID)
	return plan, nil
}

// GetPlan returns a plan if the caller owns it or is a member.
// Plans outside the caller's reach read as not found.
func (s *SharingService) GetPlan(ctx context.Context, planID, userID string) (*domain.Plan, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("plan %s not found", planID)
		}
		return nil, err
	}

	if plan.OwnerID == userID {
		return plan, nil
	}

	_, err = s.store.GetPlanMember(ctx, planID, userID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("plan %s not found", planID)
		}
		return nil, err
	}

	return plan, nil
}

// VisiblePlans returns plans the user owns plus plans they are a member of,
// each exactly once.
func (s *SharingService) VisiblePlans(ctx context.Context, userID string) ([]*domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var plans []*domain.Plan

	owned, err := s.store.GetPlansForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned plans: %w", err)
	}
	for _, plan := range owned {
		seen[plan.ID] = true
		plans = append(plans, plan)
	}

	memberships, err := s.store.GetMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	for _, membership := range memberships {
		if seen[membership.PlanID] {
			continue
		}
		plan, err := s.store.GetPlan(ctx, membership.PlanID)
		if err != nil {
			if stderrors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		seen[plan.ID] = true
		plans = append(plans, plan)
	}

	return plans, nil
}

// UpdatePlan updates plan fields. Owner only.
func (s *SharingService) UpdatePlan(ctx context.Context, planID, requesterID string, name, description *string) (*domain.Plan, error) {
	plan, err := s.GetPlan(ctx, planID, requesterID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != requesterID {
		return nil, errors.Forbidden("only the plan owner can update the plan")
	}

	if name != nil {
		plan.Name = *name
	}
	if description != nil {
		plan.Description = *description
	}

	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}

	return plan, nil
}

// DeletePlan deletes a plan with its memberships and task links. Owner only.
func (s *SharingService) DeletePlan(ctx context.Context, planID, requesterID string) error {
	plan, err := s.GetPlan(ctx, planID, requesterID)
	if err != nil {
		return err
	}
	if plan.OwnerID != requesterID {
		return errors.Forbidden("only the plan owner can delete the plan")
	}

	if err := s.store.DeletePlan(ctx, planID); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}

	s.logger.Info("plan deleted", "plan_id", planID, "owner_id", requesterID)
	return nil
}

// AddMember grants a user access to a plan. Only the plan owner may add
// members; the owner themselves and duplicate members are rejected.
func (s *SharingService) AddMember(ctx context.Context, planID, requesterID, targetUserID string, permission domain.PlanPermission) (*domain.PlanMember, error) {
	plan, err := s.GetPlan(ctx, planID, requesterID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != requesterID {
		return nil, errors.Forbidden("only the plan owner can add members")
	}

	if targetUserID == plan.OwnerID {
		return nil, errors.Validation("plan owner cannot be added as a member")
	}

	if _, err := s.store.GetUser(ctx, targetUserID); err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.Validationf("user %s does not exist", targetUserID)
		}
		return nil, err
	}

	if permission == "" {
		permission = domain.PermissionView
	}

	member := &domain.PlanMember{
		PlanID:     planID,
		UserID:     targetUserID,
		AddedBy:    requesterID,
		Permission: permission,
	}

	memberID, err := id.Generate("member")
	if err != nil {
		return nil, errors.Internal("generate membership ID").WithCause(err)
	}
	member.ID = memberID

	if err := s.store.CreatePlanMember(ctx, member); err != nil {
		if stderrors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Validationf("user %s is already a member of this plan", targetUserID)
		}
		return nil, fmt.Errorf("create membership: %w", err)
	}

	s.logger.Info("plan member added",
		"plan_id", planID,
		"user_id", targetUserID,
		"permission", member.Permission,
		"added_by", requesterID,
	)

	return member, nil
}

// ListMembers returns a plan's memberships. Visible to the owner and members.
func (s *SharingService) ListMembers(ctx context.Context, planID, requesterID string) ([]*domain.PlanMember, error) {
	if _, err := s.GetPlan(ctx, planID, requesterID); err != nil {
		return nil, err
	}
	return s.store.GetMembersForPlan(ctx, planID)
}

// UpdateMemberPermission changes a member's permission. Owner only.
func (s *SharingService) UpdateMemberPermission(ctx context.Context, planID, requesterID, targetUserID string, permission domain.PlanPermission) (*domain.PlanMember, error) {
	plan, err := s.GetPlan(ctx, planID, requesterID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != requesterID {
		return nil, errors.Forbidden("only the plan owner can change member permissions")
	}

	member, err := s.store.GetPlanMember(ctx, planID, targetUserID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("user %s is not a member of this plan", targetUserID)
		}
		return nil, err
	}

	member.Permission = permission
	if err := s.store.UpdatePlanMember(ctx, member); err != nil {
		return nil, fmt.Errorf("update membership: %w", err)
	}

	return member, nil
}

// RemoveMember revokes a user's plan access. The owner can remove anyone;
// a member can remove themselves.
func (s *SharingService) RemoveMember(ctx context.Context, planID, requesterID, targetUserID string) error {
	plan, err := s.GetPlan(ctx, planID, requesterID)
	if err != nil {
		return err
	}
	if plan.OwnerID != requesterID && requesterID != targetUserID {
		return errors.Forbidden("only the plan owner can remove other members")
	}

	if err := s.store.DeletePlanMember(ctx, planID, targetUserID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}

	s.logger.Info("plan member removed", "plan_id", planID, "user_id", targetUserID, "removed_by", requesterID)
	return nil
}

// AddTaskToPlan links a task into a plan. Owner only; the task must be
// visible to the owner.
func (s *SharingService) AddTaskToPlan(ctx context.Context, planID, requesterID, taskID string) (*domain.PlanTask, error) {
	plan, err := s.GetPlan(ctx, planID, requesterID)
	if err != nil {
		return nil, err
	}
	if plan.OwnerID != requesterID {
		return nil, errors.Forbidden("only the plan owner can add tasks to the plan")
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("task %s not found", taskID)
		}
		return nil, err
	}

	visible, err := s.CanViewTask(ctx, requesterID, task)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, errors.NotFoundf("task %s not found", taskID)
	}

	link := &domain.PlanTask{
		PlanID:  planID,
		TaskID:  taskID,
		AddedBy: requesterID,
	}

	linkID, err := id.Generate("plantask")
	if err != nil {
		return nil, errors.Internal("generate plan task ID").WithCause(err)
	}
	link.ID = linkID

	if err := s.store.CreatePlanTask(ctx, link); err != nil {
		if stderrors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Validationf("task %s is already in this plan", taskID)
		}
		return nil, fmt.Errorf("create plan task link: %w", err)
	}

	return link, nil
}

// ListPlanTasks returns the tasks linked into a plan. Visible to the owner
// and members.
func (s *SharingService) ListPlanTasks(ctx context.Context, planID, requesterID string) ([]*domain.Task, error) {
	if _, err := s.GetPlan(ctx, planID, requesterID); err != nil {
		return nil, err
	}
	return s.store.GetTasksForPlan(ctx, planID)
}

// RemoveTaskFromPlan unlinks a task from a plan. Owner only; idempotent.
func (s *SharingService) RemoveTaskFromPlan(ctx context.Context, planID, requesterID, taskID string) error {
	plan, err := s.GetPlan(ctx, planID, requesterID)
	if err != nil {
		return err
	}
	if plan.OwnerID != requesterID {
		return errors.Forbidden("only the plan owner can remove tasks from the plan")
	}

	return s.store.DeletePlanTask(ctx, planID, taskID)
}
