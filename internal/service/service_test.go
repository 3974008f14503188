package service_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/service"
	"github.com/plannerapp/planner-server/internal/store"
)

// testEnv bundles the services under test with their backing store.
type testEnv struct {
	store      *store.Store
	sharing    *service.SharingService
	tasks      *service.TaskService
	categories *service.CategoryService
	streaks    *service.StreakService
	badges     *service.BadgeService
	calendar   *service.CalendarService
	users      *service.UserService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sharing := service.NewSharingService(s, logger)
	streaks := service.NewStreakService(s, logger)

	return &testEnv{
		store:      s,
		sharing:    sharing,
		tasks:      service.NewTaskService(s, sharing, streaks, logger),
		categories: service.NewCategoryService(s, logger),
		streaks:    streaks,
		badges:     service.NewBadgeService(s, logger),
		calendar:   service.NewCalendarService(s, nil, logger),
		users:      service.NewUserService(s, logger),
	}
}

func (e *testEnv) addUser(t *testing.T, userID string) {
	t.Helper()
	_, err := e.store.EnsureUser(context.Background(), userID, userID+"@example.com", "")
	require.NoError(t, err)
}
