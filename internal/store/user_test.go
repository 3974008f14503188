package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/store"
)

func TestEnsureUser_ProvisionsOnce(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user, err := s.EnsureUser(ctx, "user-1", "casey@example.com", "Casey")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "casey@example.com", user.Email)

	// Second sight returns the same row.
	again, err := s.EnsureUser(ctx, "user-1", "casey@example.com", "Casey")
	require.NoError(t, err)
	assert.Equal(t, user.CreatedAt, again.CreatedAt)
}

func TestDeleteUserData_Cascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.EnsureUser(ctx, "user-1", "casey@example.com", "Casey")
	require.NoError(t, err)
	_, err = s.EnsureUser(ctx, "user-2", "riley@example.com", "Riley")
	require.NoError(t, err)

	// Owned data.
	category := &domain.Category{OwnerID: "user-1", Name: "Work"}
	category.ID = "cat-1"
	require.NoError(t, s.CreateCategory(ctx, category))

	createTask(t, s, "task-1", "user-1", "")

	_, err = s.IncrementStreak(ctx, "user-1", time.Now())
	require.NoError(t, err)

	plan := &domain.Plan{OwnerID: "user-1", Name: "Sprint"}
	plan.ID = "plan-1"
	require.NoError(t, s.CreatePlan(ctx, plan))

	member := &domain.PlanMember{PlanID: "plan-1", UserID: "user-2", AddedBy: "user-1"}
	member.ID = "member-1"
	require.NoError(t, s.CreatePlanMember(ctx, member))

	sync := &domain.CalendarSync{OwnerID: "user-1", Provider: "google"}
	sync.ID = "calsync-1"
	require.NoError(t, s.CreateCalendarSync(ctx, sync))

	// Membership in someone else's plan.
	otherPlan := &domain.Plan{OwnerID: "user-2", Name: "Shared"}
	otherPlan.ID = "plan-2"
	require.NoError(t, s.CreatePlan(ctx, otherPlan))

	otherMember := &domain.PlanMember{PlanID: "plan-2", UserID: "user-1", AddedBy: "user-2"}
	otherMember.ID = "member-2"
	require.NoError(t, s.CreatePlanMember(ctx, otherMember))

	require.NoError(t, s.DeleteUserData(ctx, "user-1"))

	_, err = s.GetUser(ctx, "user-1")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	categories, err := s.GetCategoriesForOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, categories)

	tasks, err := s.GetTasksForOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	streaks, err := s.GetStreaksForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, streaks)

	_, err = s.GetPlan(ctx, "plan-1")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	syncs, err := s.GetCalendarSyncsForOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, syncs)

	// The other user's plan survives without the deleted member.
	_, err = s.GetPlan(ctx, "plan-2")
	require.NoError(t, err)

	members, err := s.GetMembersForPlan(ctx, "plan-2")
	require.NoError(t, err)
	assert.Empty(t, members)

	// user-2 is untouched.
	_, err = s.GetUser(ctx, "user-2")
	assert.NoError(t, err)
}
