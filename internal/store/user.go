package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/plannerapp/planner-server/internal/domain"
)

// CreateUser creates a new user row.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		return fmt.Errorf("user ID is required")
	}
	user.InitTimestamps()
	return s.Users.Create(ctx, user.ID, user)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.Users.Get(ctx, userID)
}

// GetUserByEmail retrieves a user by email (case-insensitive).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// EnsureUser returns the user row for the given identity, creating it on
// first sight. Subjects come from verified tokens, so an unknown subject is
// a new account, not an error.
func (s *Store) EnsureUser(ctx context.Context, userID, email, displayName string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user = &domain.User{
		Email:       email,
		DisplayName: displayName,
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.Users.Create(ctx, userID, user); err != nil {
		// Lost a provisioning race; the row exists now.
		if errors.Is(err, ErrAlreadyExists) {
			return s.Users.Get(ctx, userID)
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("provisioned user", "user_id", userID)
	}

	return user, nil
}

// UpdateUser updates an existing user row.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()
	return s.Users.Update(ctx, user.ID, user)
}

// DeleteUserData removes a user and everything they own: categories, tasks
// and their joins, streaks, plans with their memberships and task links,
// badge awards, calendar syncs, and memberships in other users' plans.
// Tasks shared into surviving plans disappear with their owner.
func (s *Store) DeleteUserData(ctx context.Context, userID string) error {
	// Owned tasks (joins cleaned per task).
	tasks, err := s.Tasks.FindByIndex(ctx, "owner", userID)
	if err != nil {
		return fmt.Errorf("list tasks for user %s: %w", userID, err)
	}
	for _, task := range tasks {
		if err := s.DeleteTask(ctx, task.ID); err != nil {
			return fmt.Errorf("delete task %s: %w", task.ID, err)
		}
	}

	// Owned categories and their remaining attachments.
	categories, err := s.Categories.FindByIndex(ctx, "owner", userID)
	if err != nil {
		return fmt.Errorf("list categories for user %s: %w", userID, err)
	}
	for _, category := range categories {
		if err := s.DeleteCategory(ctx, category.ID); err != nil {
			return fmt.Errorf("delete category %s: %w", category.ID, err)
		}
	}

	// Streak rows.
	streaks, err := s.Streaks.FindByIndex(ctx, "user", userID)
	if err != nil {
		return fmt.Errorf("list streaks for user %s: %w", userID, err)
	}
	for _, streak := range streaks {
		if err := s.Streaks.Delete(ctx, streak.ID); err != nil {
			return fmt.Errorf("delete streak %s: %w", streak.ID, err)
		}
	}

	// Owned plans, including their member and task links.
	plans, err := s.Plans.FindByIndex(ctx, "owner", userID)
	if err != nil {
		return fmt.Errorf("list plans for user %s: %w", userID, err)
	}
	for _, plan := range plans {
		if err := s.DeletePlan(ctx, plan.ID); err != nil {
			return fmt.Errorf("delete plan %s: %w", plan.ID, err)
		}
	}

	// Memberships in plans owned by others.
	memberships, err := s.PlanMembers.FindByIndex(ctx, "user", userID)
	if err != nil {
		return fmt.Errorf("list memberships for user %s: %w", userID, err)
	}
	for _, member := range memberships {
		if err := s.PlanMembers.Delete(ctx, member.ID); err != nil {
			return fmt.Errorf("delete membership %s: %w", member.ID, err)
		}
	}

	// Badge awards.
	awards, err := s.UserBadges.FindByIndex(ctx, "user", userID)
	if err != nil {
		return fmt.Errorf("list awards for user %s: %w", userID, err)
	}
	for _, award := range awards {
		if err := s.UserBadges.Delete(ctx, award.ID); err != nil {
			return fmt.Errorf("delete award %s: %w", award.ID, err)
		}
	}

	// Calendar syncs.
	syncs, err := s.CalendarSyncs.FindByIndex(ctx, "owner", userID)
	if err != nil {
		return fmt.Errorf("list calendar syncs for user %s: %w", userID, err)
	}
	for _, sync := range syncs {
		if err := s.CalendarSyncs.Delete(ctx, sync.ID); err != nil {
			return fmt.Errorf("delete calendar sync %s: %w", sync.ID, err)
		}
	}

	if err := s.Users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}

	if s.logger != nil {
		s.logger.Info("deleted user data", "user_id", userID,
			"tasks", len(tasks), "categories", len(categories), "plans", len(plans))
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
