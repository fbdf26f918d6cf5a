package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"loan-intake/internal/api/handler/dto"
	"loan-intake/internal/config"
	"loan-intake/internal/pkg/apperrors"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	secret []byte
	now    func() time.Time
	errs   errorWriter
	logger *slog.Logger
}

func NewAuthHandler(cfg config.Config, l *slog.Logger) *AuthHandler {
	logger := l.With("component", "AuthHandler")
	return &AuthHandler{
		secret: []byte(cfg.Server.Auth.JWTSecret),
		now:    time.Now,
		errs:   errorWriter{exposeDetails: cfg.App.IsDevelopment(), logger: logger},
		logger: logger,
	}
}

// GenerateBearerToken issues an HS256 token whose subject is recorded as the
// actor of status changes made with it.
//
// @Summary Issue a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "Token subject"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.errs.respondError(w, r, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		h.errs.respondError(w, r, fmt.Errorf("%w: username is required", apperrors.ErrInvalidArgument))
		return
	}

	now := h.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		h.errs.respondError(w, r, fmt.Errorf("%w: sign token: %v", apperrors.ErrInternalServer, err))
		return
	}

	h.logger.InfoContext(r.Context(), "Issued bearer token", "subject", username)
	respondJSON(w, http.StatusOK, dto.TokenResponse{
		Token:     "Bearer " + tokenString,
		ExpiresIn: int64(tokenTTL.Seconds()),
	})
}
