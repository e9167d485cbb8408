package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	emailsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbound_emails_processed_total",
			Help: "Inbound emails consumed from the queue, by outcome",
		},
		[]string{"outcome"},
	)

	assignmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_assignment_outcomes_total",
			Help: "Final inquiry status after the assignment step",
		},
		[]string{"status"},
	)

	leadsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Lead records created for unknown senders",
		},
	)

	acknowledgmentFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "acknowledgment_email_failures_total",
			Help: "Acknowledgment emails that failed to send",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordEmailProcessed(outcome string) {
	emailsProcessed.WithLabelValues(outcome).Inc()
}

func RecordAssignment(status string) {
	assignmentOutcomes.WithLabelValues(status).Inc()
}

func RecordLeadCreated() {
	leadsCreated.Inc()
}

func RecordAcknowledgmentFailure() {
	acknowledgmentFailures.Inc()
}
