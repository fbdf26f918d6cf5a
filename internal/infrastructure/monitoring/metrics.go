package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "loan_intake"

type HTTPMetrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	InFlight          prometheus.Gauge
	IdempotentReplays prometheus.Counter
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	ApplicationsTotal *prometheus.CounterVec
	StatusChanges     *prometheus.CounterVec
	DocumentsRemoved  prometheus.Counter
	SweepRuns         *prometheus.CounterVec
}

// Submission outcomes recorded on applications_total.
const (
	OutcomeAccepted      = "accepted"
	OutcomeInvalid       = "invalid"
	OutcomeLimitExceeded = "limit_exceeded"
	OutcomeDuplicate     = "duplicate"
	OutcomeError         = "error"
)

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests served, by route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency, by route and status code.",
				// Multipart uploads run long; extend past the default 10s ceiling.
				Buckets: []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route", "code"},
		),
		InFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		IdempotentReplays: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_replays_total",
			Help:      "Responses replayed from the idempotency store.",
		}),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query latency, by query and outcome.",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		ApplicationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "applications_total",
				Help:      "Loan application submissions, by outcome.",
			},
			[]string{"outcome"},
		),
		StatusChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_changes_total",
				Help:      "Loan application status changes, by target status.",
			},
			[]string{"status"},
		),
		DocumentsRemoved: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_removed_total",
				Help:      "Stored documents removed after a failed submission or by the orphan sweep.",
			},
		),
		SweepRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orphan_sweep_runs_total",
				Help:      "Orphan document sweep runs, by result.",
			},
			[]string{"result"},
		),
	}
)

func RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	c := strconv.Itoa(code)
	HTTP.RequestsTotal.WithLabelValues(method, route, c).Inc()
	HTTP.RequestDuration.WithLabelValues(method, route, c).Observe(duration.Seconds())
}

func RecordIdempotentReplay() {
	HTTP.IdempotentReplays.Inc()
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordApplication(outcome string) {
	Business.ApplicationsTotal.WithLabelValues(outcome).Inc()
}

func RecordStatusChange(status string) {
	Business.StatusChanges.WithLabelValues(status).Inc()
}

// RecordSweepRun counts one orphan sweep; result is "ok" or "error".
func RecordSweepRun(failed bool) {
	result := "ok"
	if failed {
		result = "error"
	}
	Business.SweepRuns.WithLabelValues(result).Inc()
}

func RecordDocumentsRemoved(n int) {
	if n > 0 {
		Business.DocumentsRemoved.Add(float64(n))
	}
}
