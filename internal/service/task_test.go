package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/service"
)

func TestComplete_RecordsStreakUnderActor(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-owner")
	env.addUser(t, "user-member")

	task, err := env.tasks.Create(ctx, "user-owner", service.CreateTaskInput{Title: "shared chore"})
	require.NoError(t, err)

	plan, err := env.sharing.CreatePlan(ctx, "user-owner", "Household", "")
	require.NoError(t, err)
	_, err = env.sharing.AddMember(ctx, plan.ID, "user-owner", "user-member", domain.PermissionView)
	require.NoError(t, err)
	_, err = env.sharing.AddTaskToPlan(ctx, plan.ID, "user-owner", task.ID)
	require.NoError(t, err)

	// The member completes the owner's task.
	view, err := env.tasks.Complete(ctx, task.ID, "user-member")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, view.Status)
	require.NotNil(t, view.CompletedAt)

	// The streak lands on the actor, not the owner.
	memberStreaks, err := env.streaks.List(ctx, "user-member")
	require.NoError(t, err)
	require.Len(t, memberStreaks, 1)
	assert.Equal(t, 1, memberStreaks[0].TasksCompleted)
	assert.True(t, memberStreaks[0].IsCompletedDay)

	ownerStreaks, err := env.streaks.List(ctx, "user-owner")
	require.NoError(t, err)
	assert.Empty(t, ownerStreaks)
}

func TestSnooze_NoStreakEffect(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")

	task, err := env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "later"})
	require.NoError(t, err)

	until := time.Now().Add(24 * time.Hour)
	view, err := env.tasks.Snooze(ctx, task.ID, "user-1", &until)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusSnoozed, view.Status)

	streaks, err := env.streaks.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, streaks)

	// Snoozing without a wake time is a plain status flip.
	view, err = env.tasks.Snooze(ctx, task.ID, "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusSnoozed, view.Status)
	assert.Nil(t, view.SnoozedUntil)

	// Snoozing into the past is rejected.
	past := time.Now().Add(-time.Hour)
	_, err = env.tasks.Snooze(ctx, task.ID, "user-1", &past)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
}

func TestTaskVisibility_NotFoundOutsideVisibleSet(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-owner")
	env.addUser(t, "user-stranger")

	task, err := env.tasks.Create(ctx, "user-owner", service.CreateTaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = env.tasks.Get(ctx, task.ID, "user-stranger")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound), "invisible tasks read as not found, not forbidden")

	_, err = env.tasks.Complete(ctx, task.ID, "user-stranger")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestList_SharedSubtaskWithoutVisibleParent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-owner")
	env.addUser(t, "user-member")

	parent, err := env.tasks.Create(ctx, "user-owner", service.CreateTaskInput{Title: "project"})
	require.NoError(t, err)
	child, err := env.tasks.Create(ctx, "user-owner", service.CreateTaskInput{
		Title:        "shared step",
		ParentTaskID: parent.ID,
	})
	require.NoError(t, err)

	// Only the child is linked into the member's plan; the parent stays
	// private to the owner.
	plan, err := env.sharing.CreatePlan(ctx, "user-owner", "Handoff", "")
	require.NoError(t, err)
	_, err = env.sharing.AddMember(ctx, plan.ID, "user-owner", "user-member", domain.PermissionView)
	require.NoError(t, err)
	_, err = env.sharing.AddTaskToPlan(ctx, plan.ID, "user-owner", child.ID)
	require.NoError(t, err)

	// The member's list surfaces the child as a root.
	views, err := env.tasks.List(ctx, "user-member")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, child.ID, views[0].ID)

	// The owner still sees a single root with the child nested inside.
	views, err = env.tasks.List(ctx, "user-owner")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, parent.ID, views[0].ID)
	require.Len(t, views[0].Subtasks, 1)
	assert.Equal(t, child.ID, views[0].Subtasks[0].ID)
}

func TestUpdate_EditPermissionGating(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-owner")
	env.addUser(t, "user-viewer")
	env.addUser(t, "user-editor")

	task, err := env.tasks.Create(ctx, "user-owner", service.CreateTaskInput{Title: "shared"})
	require.NoError(t, err)

	plan, err := env.sharing.CreatePlan(ctx, "user-owner", "Team", "")
	require.NoError(t, err)
	_, err = env.sharing.AddMember(ctx, plan.ID, "user-owner", "user-viewer", domain.PermissionView)
	require.NoError(t, err)
	_, err = env.sharing.AddMember(ctx, plan.ID, "user-owner", "user-editor", domain.PermissionEdit)
	require.NoError(t, err)
	_, err = env.sharing.AddTaskToPlan(ctx, plan.ID, "user-owner", task.ID)
	require.NoError(t, err)

	newTitle := "renamed"

	// A view member can read but not update or delete.
	_, err = env.tasks.Get(ctx, task.ID, "user-viewer")
	require.NoError(t, err)
	_, err = env.tasks.Update(ctx, task.ID, "user-viewer", service.UpdateTaskInput{Title: &newTitle})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeForbidden))
	err = env.tasks.Delete(ctx, task.ID, "user-viewer")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeForbidden))

	// An edit member can update.
	view, err := env.tasks.Update(ctx, task.ID, "user-editor", service.UpdateTaskInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "renamed", view.Title)

	// Completing and snoozing stay visibility-gated: the viewer may complete.
	_, err = env.tasks.Complete(ctx, task.ID, "user-viewer")
	require.NoError(t, err)
}

func TestUpdate_CycleRejection(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")

	grandparent, err := env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "grandparent"})
	require.NoError(t, err)
	parent, err := env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "parent", ParentTaskID: grandparent.ID})
	require.NoError(t, err)
	child, err := env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "child", ParentTaskID: parent.ID})
	require.NoError(t, err)

	// Self-parenting.
	_, err = env.tasks.Update(ctx, parent.ID, "user-1", service.UpdateTaskInput{ParentTaskID: &parent.ID})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	// Reparenting the grandparent under its own descendant.
	_, err = env.tasks.Update(ctx, grandparent.ID, "user-1", service.UpdateTaskInput{ParentTaskID: &child.ID})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	// Missing parent.
	ghost := "task-ghost"
	_, err = env.tasks.Update(ctx, child.ID, "user-1", service.UpdateTaskInput{ParentTaskID: &ghost})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	// Detaching is always fine.
	empty := ""
	view, err := env.tasks.Update(ctx, child.ID, "user-1", service.UpdateTaskInput{ParentTaskID: &empty})
	require.NoError(t, err)
	assert.Empty(t, view.ParentTaskID)
}

func TestGet_RecursiveViewWithCategories(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")

	category, err := env.categories.Create(ctx, "user-1", "Work", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryColor, category.Color)

	root, err := env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "project"})
	require.NoError(t, err)
	childA, err := env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "step one", ParentTaskID: root.ID})
	require.NoError(t, err)
	_, err = env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "step one a", ParentTaskID: childA.ID})
	require.NoError(t, err)

	require.NoError(t, env.tasks.AttachCategory(ctx, root.ID, "user-1", category.ID))

	view, err := env.tasks.Get(ctx, root.ID, "user-1")
	require.NoError(t, err)

	require.Len(t, view.Categories, 1)
	assert.Equal(t, "Work", view.Categories[0].Name)

	require.Len(t, view.Subtasks, 1)
	assert.Equal(t, "step one", view.Subtasks[0].Title)
	require.Len(t, view.Subtasks[0].Subtasks, 1)
	assert.Equal(t, "step one a", view.Subtasks[0].Subtasks[0].Title)

	// Top-level list renders subtasks inside their parents only.
	views, err := env.tasks.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestAttachCategory_OwnershipRequired(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")
	env.addUser(t, "user-2")

	task, err := env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "tagged"})
	require.NoError(t, err)

	foreign, err := env.categories.Create(ctx, "user-2", "Theirs", "")
	require.NoError(t, err)

	// Another user's category reads as not found.
	err = env.tasks.AttachCategory(ctx, task.ID, "user-1", foreign.ID)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	mine, err := env.categories.Create(ctx, "user-1", "Mine", "")
	require.NoError(t, err)
	require.NoError(t, env.tasks.AttachCategory(ctx, task.ID, "user-1", mine.ID))

	// Re-attaching is a validation error.
	err = env.tasks.AttachCategory(ctx, task.ID, "user-1", mine.ID)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	// Detach is idempotent.
	require.NoError(t, env.tasks.DetachCategory(ctx, task.ID, "user-1", mine.ID))
	require.NoError(t, env.tasks.DetachCategory(ctx, task.ID, "user-1", mine.ID))
}
