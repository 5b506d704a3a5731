package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestResponseEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ResponseSuccess(rec, "ok", map[string]string{"token": "abc"})
	body := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "ok", body["message"])
	assert.Equal(t, map[string]any{"token": "abc"}, body["data"])
	assert.NotContains(t, body, "errors")

	rec = httptest.NewRecorder()
	ResponseBadRequest(rec, "Validation failed", []string{"email is required"})
	body = decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, []any{"email is required"}, body["errors"])
	assert.NotContains(t, body, "data")

	// Failure responses without detail omit both optional fields
	rec = httptest.NewRecorder()
	ResponseNotFound(rec, "User not found")
	body = decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "errors")
}
