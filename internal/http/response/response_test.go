package response

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnvelope_Marshal(t *testing.T) {
	envelope := Envelope{
		Success: true,
		Data:    map[string]string{"key": "value"},
	}

	data, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded Envelope
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.True(t, decoded.Success)
	assert.NotNil(t, decoded.Data)
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, testLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
}

func TestError_EnvelopeShape(t *testing.T) {
	w := httptest.NewRecorder()

	NotFound(w, "task not found", testLogger())

	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "task not found", envelope.Error)
	assert.Nil(t, envelope.Data)
}

func TestHandleError_DomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", errors.NotFound("task not found"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", errors.Validation("name is required"), http.StatusBadRequest, "VALIDATION"},
		{"forbidden", errors.Forbidden("only the owner can add members"), http.StatusForbidden, "FORBIDDEN"},
		{"already exists", errors.AlreadyExists("duplicate member"), http.StatusConflict, "ALREADY_EXISTS"},
		{"unauthorized", errors.Unauthorized("authentication required"), http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, testLogger())

			assert.Equal(t, tt.wantStatus, w.Code)

			var envelope Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			assert.False(t, envelope.Success)
			assert.Equal(t, tt.wantCode, envelope.Code)
		})
	}
}

func TestHandleError_UnknownError(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, assert.AnError, testLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := errors.ValidationWithDetails("validation failed", map[string]string{"color": "must be a hex color"})

	HandleError(w, err, testLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be a hex color")
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
