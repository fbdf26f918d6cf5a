package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "loan-intake/docs"
	"loan-intake/internal/api/handler"
	mw "loan-intake/internal/api/middleware"
	"loan-intake/internal/config"
	"loan-intake/internal/domain/loan"
)

// SetupRouter wires every route. rdb may be nil, in which case submissions are
// not deduplicated by Idempotency-Key. The rate limiter cleanup stops with ctx.
func SetupRouter(ctx context.Context, intakeService loan.IntakeService, rdb redis.Cmdable, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupCalculatorRoutes(router, intakeService, logger)
	setupApplicationRoutes(router, intakeService, rdb, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger, "/health", metricsPath(cfg)))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiter(ctx, cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func metricsPath(cfg *config.Config) string {
	if cfg.Metrics.Path == "" {
		return "/metrics"
	}
	return cfg.Metrics.Path
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	path := metricsPath(cfg)
	logger.Info("Setting up Prometheus metrics endpoint", "path", path)
	router.Handle(path, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Serving API documentation", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupCalculatorRoutes(router *chi.Mux, svc loan.IntakeService, logger *slog.Logger) {
	h := handler.NewCalculatorHandler(svc, logger)
	router.Post("/api/loan-calculation", h.CalculateLoan)
	router.Post("/api/loan-limit", h.CalculateLimit)
}

func setupApplicationRoutes(router *chi.Mux, svc loan.IntakeService, rdb redis.Cmdable, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewApplicationHandler(svc, cfg.Server.MaxUploadBytes, cfg.App.IsDevelopment(), logger)

	router.Route("/api/loan-application", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if rdb != nil {
				logger.Info("Idempotency-Key support enabled for submissions", "ttl", cfg.Redis.IdempotencyTTL)
				r.Use(mw.Idempotency(rdb, cfg.Redis.IdempotencyTTL, cfg.Server.MaxUploadBytes, logger))
			}
			r.Post("/", h.SubmitApplication)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
			r.Route("/{applicationID}", func(r chi.Router) {
				r.Get("/", h.GetApplication)
				r.Get("/audit", h.GetAuditTrail)
				r.Patch("/status", h.UpdateStatus)
			})
		})
	})
}
