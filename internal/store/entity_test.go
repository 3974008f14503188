package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	category := &domain.Category{OwnerID: "user-1", Name: "Work", Color: "#FF0000"}
	category.ID = "cat-1"
	require.NoError(t, s.CreateCategory(ctx, category))

	got, err := s.GetCategory(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "Work", got.Name)
	assert.Equal(t, "#FF0000", got.Color)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestEntity_CreateDuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	category := &domain.Category{OwnerID: "user-1", Name: "Work"}
	category.ID = "cat-1"
	require.NoError(t, s.CreateCategory(ctx, category))

	dup := &domain.Category{OwnerID: "user-2", Name: "Other"}
	dup.ID = "cat-1"
	err := s.CreateCategory(ctx, dup)
	assert.True(t, errors.Is(err, store.ErrAlreadyExists))
}

func TestEntity_UniqueIndexConflict(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := &domain.Category{OwnerID: "user-1", Name: "Work"}
	first.ID = "cat-1"
	require.NoError(t, s.CreateCategory(ctx, first))

	// Same owner, same name: unique (owner, name) violated.
	second := &domain.Category{OwnerID: "user-1", Name: "Work"}
	second.ID = "cat-2"
	err := s.CreateCategory(ctx, second)
	assert.True(t, errors.Is(err, store.ErrAlreadyExists))

	// Same name under a different owner is fine.
	third := &domain.Category{OwnerID: "user-2", Name: "Work"}
	third.ID = "cat-3"
	assert.NoError(t, s.CreateCategory(ctx, third))
}

func TestEntity_UpdateReleasesUniqueIndex(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	category := &domain.Category{OwnerID: "user-1", Name: "Work"}
	category.ID = "cat-1"
	require.NoError(t, s.CreateCategory(ctx, category))

	category.Name = "Office"
	require.NoError(t, s.UpdateCategory(ctx, category))

	// The old name is free again.
	reuse := &domain.Category{OwnerID: "user-1", Name: "Work"}
	reuse.ID = "cat-2"
	assert.NoError(t, s.CreateCategory(ctx, reuse))

	// Renaming onto a taken name fails.
	reuse.Name = "Office"
	err := s.UpdateCategory(ctx, reuse)
	assert.True(t, errors.Is(err, store.ErrAlreadyExists))
}

func TestEntity_GetNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetCategory(context.Background(), "cat-missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestEntity_DeleteIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	category := &domain.Category{OwnerID: "user-1", Name: "Work"}
	category.ID = "cat-1"
	require.NoError(t, s.CreateCategory(ctx, category))

	require.NoError(t, s.DeleteCategory(ctx, "cat-1"))
	assert.NoError(t, s.DeleteCategory(ctx, "cat-1"))

	// Deleting released the unique index.
	again := &domain.Category{OwnerID: "user-1", Name: "Work"}
	again.ID = "cat-2"
	assert.NoError(t, s.CreateCategory(ctx, again))
}

func TestEntity_FindByIndexReturnsAllMatches(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Work", "Home", "Errands"} {
		category := &domain.Category{OwnerID: "user-1", Name: name}
		category.ID = "cat-" + name
		require.NoError(t, s.CreateCategory(ctx, category))
	}
	other := &domain.Category{OwnerID: "user-2", Name: "Work"}
	other.ID = "cat-other"
	require.NoError(t, s.CreateCategory(ctx, other))

	categories, err := s.GetCategoriesForOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	empty, err := s.GetCategoriesForOwner(ctx, "user-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEntity_GetByIndexTransform(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := &domain.User{Email: "Casey@Example.com"}
	user.ID = "user-1"
	require.NoError(t, s.CreateUser(ctx, user))

	// Email lookups are case-insensitive.
	got, err := s.GetUserByEmail(ctx, "casey@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestEntity_ListPage(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		badge := &domain.Badge{Code: string(rune('a' + i)), Name: "Badge"}
		badge.ID = "badge-" + string(rune('a'+i))
		require.NoError(t, s.CreateBadge(ctx, badge))
	}

	page1, err := s.Badges.ListPage(ctx, store.PaginationParams{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page1.Items, 3)
	assert.True(t, page1.HasMore)
	require.NotEmpty(t, page1.NextCursor)

	page2, err := s.Badges.ListPage(ctx, store.PaginationParams{Limit: 3, Cursor: page1.NextCursor})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 2)
	assert.False(t, page2.HasMore)
	assert.Empty(t, page2.NextCursor)
}
