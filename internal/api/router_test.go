package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake/internal/config"
	"loan-intake/internal/domain/audit"
	"loan-intake/internal/domain/loan"
)

type stubIntakeService struct {
	submitCalls int
}

func (s *stubIntakeService) Submit(ctx context.Context, sub *loan.Submission) (*loan.Application, error) {
	s.submitCalls++
	return &loan.Application{ID: uuid.New(), Status: loan.StatusPending}, nil
}

func (s *stubIntakeService) UpdateStatus(ctx context.Context, id uuid.UUID, status, actor, notes string) (*loan.Application, error) {
	return &loan.Application{ID: id, Status: loan.Status(status)}, nil
}

func (s *stubIntakeService) GetApplication(ctx context.Context, id uuid.UUID) (*loan.ApplicationDetails, error) {
	return &loan.ApplicationDetails{Application: &loan.Application{ID: id}}, nil
}

func (s *stubIntakeService) AuditTrail(ctx context.Context, id uuid.UUID) ([]audit.Entry, error) {
	return nil, nil
}

func (s *stubIntakeService) CalculateSchedule(principal float64, tenureMonths int, ratePercent float64) loan.Schedule {
	return loan.ComputeInstallmentSchedule(principal, tenureMonths, ratePercent)
}

func (s *stubIntakeService) CalculateLimit(collateralType string, forcedSaleValue, monthlyIncome float64) int64 {
	return loan.ComputeLoanLimit(loan.CollateralType(collateralType), forcedSaleValue, monthlyIncome)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			MaxUploadBytes: 1 << 20,
			Auth:           config.AuthConfig{Enabled: true, JWTSecret: "router-secret"},
		},
		Metrics: config.MetricsConfig{Path: "/metrics"},
		Redis:   config.RedisConfig{IdempotencyTTL: time.Hour},
	}
}

func newTestRouter(t *testing.T, svc loan.IntakeService, rdb redis.Cmdable) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return SetupRouter(ctx, svc, rdb, testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonDecode(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}

func TestSetupRouter_PublicRoutes(t *testing.T) {
	router := newTestRouter(t, &stubIntakeService{}, nil)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(router, httptest.NewRequest(http.MethodPost, "/api/loan-limit", strings.NewReader(`{"collateralType":"car","forcedSaleValue":200000}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"loanLimit":50000}`, rec.Body.String())

	rec = serve(router, httptest.NewRequest(http.MethodPost, "/api/loan-calculation", strings.NewReader(`{"amount":10000,"months":12,"interestRate":10}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"monthlyPayment":1833.33,"totalPayment":21999.96,"totalInterest":12000}`, rec.Body.String())

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/loan-application/{applicationID}/status")

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
}

func TestSetupRouter_AdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, &stubIntakeService{}, nil)
	id := uuid.New().String()

	rec := serve(router, httptest.NewRequest(http.MethodPatch, "/api/loan-application/"+id+"/status", strings.NewReader(`{"status":"approved"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"username":"officer-7"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var token struct {
		Token string `json:"token"`
	}
	require.NoError(t, jsonDecode(rec, &token))

	req := httptest.NewRequest(http.MethodPatch, "/api/loan-application/"+id+"/status", strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Authorization", token.Token)
	rec = serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"approved"`)

	req = httptest.NewRequest(http.MethodGet, "/api/loan-application/"+id+"/audit", nil)
	req.Header.Set("Authorization", token.Token)
	rec = serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupRouter_IdempotentSubmission(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := &stubIntakeService{}
	router := newTestRouter(t, svc, rdb)

	submit := func() *httptest.ResponseRecorder {
		body := "--b\r\nContent-Disposition: form-data; name=\"fullName\"\r\n\r\nJane Doe\r\n--b--\r\n"
		req := httptest.NewRequest(http.MethodPost, "/api/loan-application", strings.NewReader(body))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
		req.Header.Set("Idempotency-Key", "submit-1")
		return serve(router, req)
	}

	first := submit()
	second := submit()

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, svc.submitCalls)
}
