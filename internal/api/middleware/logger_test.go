package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	r := chi.NewRouter()
	r.Use(StructuredLogger(logger, "/health"))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})
	r.Get("/api/loan-application/{applicationID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, buf.Len(), "probe requests log below info")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/loan-application/abc", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/api/loan-application/{applicationID}", entry["route"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
}

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, requestLevel(http.StatusInternalServerError, true))
	assert.Equal(t, slog.LevelWarn, requestLevel(http.StatusConflict, false))
	assert.Equal(t, slog.LevelDebug, requestLevel(http.StatusOK, true))
	assert.Equal(t, slog.LevelInfo, requestLevel(http.StatusCreated, false))
}
