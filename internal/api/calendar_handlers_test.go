package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarSync_TokensNeverSerialized(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.doRequest(t, http.MethodPost, "/api/v1/calendar-syncs", "token-alice", map[string]any{
		"provider":         "google",
		"provider_user_id": "alice@gmail.com",
		"calendar_id":      "primary",
		"access_token":     "super-secret-access",
		"refresh_token":    "super-secret-refresh",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "super-secret-access")
	assert.NotContains(t, rec.Body.String(), "super-secret-refresh")

	envelope := decodeEnvelope(t, rec)
	sync, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	syncID, ok := sync["id"].(string)
	require.True(t, ok)
	assert.Equal(t, "active", sync["status"])
	assert.Equal(t, "alice@gmail.com", sync["provider_user_id"])

	for _, path := range []string{
		"/api/v1/calendar-syncs",
		"/api/v1/calendar-syncs/" + syncID,
	} {
		rec = ts.doRequest(t, http.MethodGet, path, "token-alice", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "super-secret-access")
		assert.NotContains(t, rec.Body.String(), "super-secret-refresh")
	}
}

func TestCalendarSync_OnePerProvider(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.doRequest(t, http.MethodPost, "/api/v1/calendar-syncs", "token-alice",
		map[string]any{"provider": "google"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.doRequest(t, http.MethodPost, "/api/v1/calendar-syncs", "token-alice",
		map[string]any{"provider": "google"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Bob linking the same provider is fine.
	rec = ts.doRequest(t, http.MethodPost, "/api/v1/calendar-syncs", "token-bob",
		map[string]any{"provider": "google"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
