package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake/internal/config"
)

func TestRateLimiter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("blocks once the burst is spent", func(t *testing.T) {
		rl := NewRateLimiter(ctx, config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2}, logger)
		handler := rl.Middleware(ok)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/loan-calculation", nil)
			req.RemoteAddr = "127.0.0.1:12345"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
			if rec.Code == http.StatusTooManyRequests {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "Too many requests", body["error"])
				assert.Equal(t, "1", rec.Header().Get("Retry-After"))
			}
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		rl := NewRateLimiter(ctx, config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, logger)
		handler := rl.Middleware(ok)

		for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code, addr)
		}
	})

	t.Run("disabled limiter passes through", func(t *testing.T) {
		rl := NewRateLimiter(ctx, config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1}, logger)
		handler := rl.Middleware(ok)

		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("idle visitors are evicted", func(t *testing.T) {
		rl := NewRateLimiter(ctx, config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1}, logger)
		now := time.Now()
		rl.now = func() time.Time { return now }
		rl.limiter("10.0.0.9")

		now = now.Add(visitorIdleTTL + time.Second)
		rl.limiter("10.0.0.10")
		rl.evictIdle()

		assert.NotContains(t, rl.visitors, "10.0.0.9")
		assert.Contains(t, rl.visitors, "10.0.0.10")
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1")
	assert.Equal(t, "192.168.1.1", clientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	assert.Equal(t, "127.0.0.1", clientIP(req))
}
