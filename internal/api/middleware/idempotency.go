package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"loan-intake/internal/infrastructure/monitoring"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	provisionalLockTTL = 60 * time.Second
	storeTimeout       = 2 * time.Second
	maxKeyLength       = 255
)

type idempotencyEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	BodySHA256  string    `json:"body_sha256"`
	CreatedAt   time.Time `json:"created_at"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// Requests without the header pass through untouched. Server errors are not
// stored, so the client may retry them with the same key.
func Idempotency(rdb redis.Cmdable, ttl time.Duration, maxBodyBytes int64, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("component", "IdempotencyMiddleware")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			idemKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if idemKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(idemKey) > maxKeyLength {
				writeError(w, http.StatusBadRequest, "Idempotency-Key is too long")
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			hash := bodyHash(body)

			key := "idem:" + strings.ToLower(r.Method) + ":" + r.URL.Path + ":" + idemKey
			ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
			defer cancel()

			acquired, err := lock(ctx, rdb, key, hash)
			if err != nil {
				logger.ErrorContext(r.Context(), "Idempotency store unavailable", "error", err)
				writeError(w, http.StatusServiceUnavailable, "Idempotency store unavailable")
				return
			}
			if !acquired {
				replay(ctx, w, r, rdb, key, hash, logger)
				return
			}

			buf := &bytes.Buffer{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(buf)
			next.ServeHTTP(ww, r)

			storeCtx, storeCancel := context.WithTimeout(context.WithoutCancel(r.Context()), storeTimeout)
			defer storeCancel()

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				if err := rdb.Del(storeCtx, key).Err(); err != nil {
					logger.WarnContext(r.Context(), "Failed to release idempotency key", "error", err)
				}
				return
			}
			final := idempotencyEntry{
				Code:        status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        buf.Bytes(),
				BodySHA256:  hash,
				CreatedAt:   time.Now().UTC(),
			}
			payload, _ := json.Marshal(final)
			if err := rdb.Set(storeCtx, key, payload, ttl).Err(); err != nil {
				logger.WarnContext(r.Context(), "Failed to store idempotent response", "error", err)
			}
		})
	}
}

func bodyHash(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}

func lock(ctx context.Context, rdb redis.Cmdable, key, hash string) (bool, error) {
	payload, _ := json.Marshal(idempotencyEntry{InProgress: true, BodySHA256: hash, CreatedAt: time.Now().UTC()})
	return rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

func replay(ctx context.Context, w http.ResponseWriter, r *http.Request, rdb redis.Cmdable, key, hash string, logger *slog.Logger) {
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			writeError(w, http.StatusConflict, "Request is already in progress")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to load idempotency entry", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Idempotency store unavailable")
		return
	}

	var cur idempotencyEntry
	if err := json.Unmarshal(raw, &cur); err != nil {
		logger.WarnContext(r.Context(), "Corrupt idempotency entry", "key", key, "error", err)
	}
	if cur.BodySHA256 != "" && cur.BodySHA256 != hash {
		writeError(w, http.StatusConflict, "Idempotency-Key reused with a different request body")
		return
	}
	if cur.InProgress || cur.Code == 0 {
		writeError(w, http.StatusConflict, "Request is already in progress")
		return
	}

	if cur.ContentType != "" {
		w.Header().Set("Content-Type", cur.ContentType)
	}
	monitoring.RecordIdempotentReplay()
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(cur.Code)
	w.Write(cur.Body)
}
