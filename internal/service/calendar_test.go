package service_test

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/domain"
	"github.com/plannerapp/planner-server/internal/errors"
	"github.com/plannerapp/planner-server/internal/service"
)

// flakyProvider fails refreshes for one provider and succeeds for the rest.
type flakyProvider struct {
	failProvider string
	calls        int
}

func (p *flakyProvider) Refresh(_ context.Context, sync *domain.CalendarSync) error {
	p.calls++
	if sync.Provider == p.failProvider {
		return stderrors.New("token revoked")
	}
	return nil
}

func TestCalendar_CreateScopedToOwner(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")
	env.addUser(t, "user-2")

	sync, err := env.calendar.Create(ctx, "user-1", service.CreateSyncInput{
		Provider:    "google",
		CalendarID:  "primary",
		AccessToken: "at-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CalendarSyncActive, sync.Status)

	// One record per (owner, provider).
	_, err = env.calendar.Create(ctx, "user-1", service.CreateSyncInput{Provider: "google"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	// A second provider for the same owner is fine, as is the same
	// provider for another owner.
	_, err = env.calendar.Create(ctx, "user-1", service.CreateSyncInput{Provider: "outlook"})
	require.NoError(t, err)
	_, err = env.calendar.Create(ctx, "user-2", service.CreateSyncInput{Provider: "google"})
	require.NoError(t, err)

	// Other users' records read as not found.
	_, err = env.calendar.Get(ctx, sync.ID, "user-2")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestCalendar_RefreshAll(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.addUser(t, "user-1")
	env.addUser(t, "user-2")

	provider := &flakyProvider{failProvider: "outlook"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	calendar := service.NewCalendarService(env.store, provider, logger)

	healthy, err := calendar.Create(ctx, "user-1", service.CreateSyncInput{Provider: "google", CalendarID: "primary"})
	require.NoError(t, err)
	broken, err := calendar.Create(ctx, "user-1", service.CreateSyncInput{Provider: "outlook"})
	require.NoError(t, err)
	paused, err := calendar.Create(ctx, "user-2", service.CreateSyncInput{Provider: "google"})
	require.NoError(t, err)

	pausedStatus := string(domain.CalendarSyncPaused)
	_, err = calendar.Update(ctx, paused.ID, "user-2", service.UpdateSyncInput{Status: &pausedStatus})
	require.NoError(t, err)

	require.NoError(t, calendar.RefreshAll(ctx))

	// Paused records are skipped entirely.
	assert.Equal(t, 2, provider.calls)

	got, err := calendar.Get(ctx, healthy.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CalendarSyncActive, got.Status)
	require.NotNil(t, got.SyncedAt)
	assert.Empty(t, got.LastError)

	got, err = calendar.Get(ctx, broken.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CalendarSyncError, got.Status)
	assert.Equal(t, "token revoked", got.LastError)
	assert.Nil(t, got.SyncedAt)

	got, err = calendar.Get(ctx, paused.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, domain.CalendarSyncPaused, got.Status)
}
