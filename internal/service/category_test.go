package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/service"
)

func TestCategory_UniquePerOwner(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")
	env.addUser(t, "user-2")

	_, err := env.categories.Create(ctx, "user-1", "Work", "#FF0000")
	require.NoError(t, err)

	// A duplicate name for the same owner is a validation error.
	_, err = env.categories.Create(ctx, "user-1", "Work", "#00FF00")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	// The same name under another owner is fine.
	_, err = env.categories.Create(ctx, "user-2", "Work", "")
	require.NoError(t, err)
}

func TestCategory_CrossOwnerReadsAsNotFound(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")
	env.addUser(t, "user-2")

	category, err := env.categories.Create(ctx, "user-1", "Private", "")
	require.NoError(t, err)

	_, err = env.categories.Get(ctx, category.ID, "user-2")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	newName := "Renamed"
	_, err = env.categories.Update(ctx, category.ID, "user-2", &newName, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	err = env.categories.Delete(ctx, category.ID, "user-2")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestCategory_RenameReleasesOldName(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")

	category, err := env.categories.Create(ctx, "user-1", "Old", "")
	require.NoError(t, err)

	newName := "New"
	updated, err := env.categories.Update(ctx, category.ID, "user-1", &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)

	// The old name is free again.
	_, err = env.categories.Create(ctx, "user-1", "Old", "")
	require.NoError(t, err)
}

func TestCategory_DeleteDetachesFromTasks(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")

	category, err := env.categories.Create(ctx, "user-1", "Chores", "")
	require.NoError(t, err)
	task, err := env.tasks.Create(ctx, "user-1", service.CreateTaskInput{Title: "laundry"})
	require.NoError(t, err)
	require.NoError(t, env.tasks.AttachCategory(ctx, task.ID, "user-1", category.ID))

	require.NoError(t, env.categories.Delete(ctx, category.ID, "user-1"))

	view, err := env.tasks.Get(ctx, task.ID, "user-1")
	require.NoError(t, err)
	assert.Empty(t, view.Categories)
}
