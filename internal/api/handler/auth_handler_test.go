package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake/internal/api/handler/dto"
	"loan-intake/internal/config"
)

func TestAuthHandler_GenerateBearerToken(t *testing.T) {
	cfg := config.Config{Server: config.ServerConfig{Auth: config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}}}
	h := NewAuthHandler(cfg, testLogger)

	t.Run("Issues token with subject", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"username":"officer-7"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.TokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(86400), resp.ExpiresIn)
		require.True(t, strings.HasPrefix(resp.Token, "Bearer "))

		token, err := jwt.Parse(strings.TrimPrefix(resp.Token, "Bearer "), func(*jwt.Token) (any, error) {
			return []byte("test-secret"), nil
		})
		require.NoError(t, err)
		sub, err := token.Claims.GetSubject()
		require.NoError(t, err)
		assert.Equal(t, "officer-7", sub)
	})

	t.Run("Missing username", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"username":"  "}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "username is required")
	})

	t.Run("Unknown field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"user":"x"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
