package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/search"
)

func setupTestIndex(t *testing.T) *search.SearchIndex {
	t.Helper()

	idx, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = idx.Close()
	})

	return idx
}

func makeTask(id, ownerID, title, description string, status domain.TaskStatus) *domain.Task {
	task := &domain.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    domain.TaskPriorityNormal,
	}
	task.ID = id
	task.UpdatedAt = time.Now()
	return task
}

func TestSearch_MatchesTitleAndDescription(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	tasks := []*domain.Task{
		makeTask("task-1", "user-1", "Buy groceries", "milk and eggs", domain.TaskStatusPending),
		makeTask("task-2", "user-1", "Write report", "quarterly grocery spend analysis", domain.TaskStatusPending),
		makeTask("task-3", "user-2", "Plan holiday", "book flights", domain.TaskStatusPending),
	}
	require.NoError(t, idx.IndexTasks(ctx, tasks))

	result, err := idx.Search(ctx, search.SearchParams{Query: "grocery"})
	require.NoError(t, err)

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	assert.Contains(t, ids, "task-1")
	assert.Contains(t, ids, "task-2")
	assert.NotContains(t, ids, "task-3")
}

func TestSearch_StatusFilter(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexTask(ctx, makeTask("task-1", "user-1", "Water plants", "", domain.TaskStatusPending)))
	require.NoError(t, idx.IndexTask(ctx, makeTask("task-2", "user-1", "Water garden", "", domain.TaskStatusCompleted)))

	result, err := idx.Search(ctx, search.SearchParams{
		Query:    "water",
		Statuses: []string{"pending"},
	})
	require.NoError(t, err)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "task-1", result.Hits[0].ID)
}

func TestSearch_DeleteRemovesTask(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexTask(ctx, makeTask("task-1", "user-1", "Fix leaky tap", "", domain.TaskStatusPending)))

	result, err := idx.Search(ctx, search.SearchParams{Query: "leaky"})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)

	require.NoError(t, idx.DeleteTask(ctx, "task-1"))

	result, err = idx.Search(ctx, search.SearchParams{Query: "leaky"})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestSearch_ReindexAfterUpdate(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	task := makeTask("task-1", "user-1", "Draft proposal", "", domain.TaskStatusPending)
	require.NoError(t, idx.IndexTask(ctx, task))

	task.Title = "Submit proposal"
	require.NoError(t, idx.IndexTask(ctx, task))

	result, err := idx.Search(ctx, search.SearchParams{Query: "draft"})
	require.NoError(t, err)
	assert.Empty(t, result.Hits)

	result, err = idx.Search(ctx, search.SearchParams{Query: "submit"})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "task-1", result.Hits[0].ID)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
