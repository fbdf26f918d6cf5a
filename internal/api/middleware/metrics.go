package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"loan-intake/internal/infrastructure/monitoring"
)

// MetricsMiddleware records request counts and latency keyed by the chi route
// pattern, so path parameters such as application ids never become labels.
func MetricsMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			monitoring.HTTP.InFlight.Inc()
			defer func() {
				monitoring.HTTP.InFlight.Dec()
				route := "unmatched"
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				monitoring.RecordHTTPRequest(r.Method, route, ww.Status(), time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
