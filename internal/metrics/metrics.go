package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skill",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method and status code.",
	}, []string{"method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skill",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	DispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skill",
		Name:      "dispatch_total",
		Help:      "Webhook dispatches by request type and outcome.",
	}, []string{"request_type", "outcome"})
)

// Dispatch outcomes.
const (
	OutcomeResponded   = "responded"
	OutcomeNoBody      = "no_body"
	OutcomeInvalid     = "invalid"
	OutcomeUnsupported = "unsupported_version"
	OutcomeUnknown     = "unknown_intent"
	OutcomeFallback    = "fallback"
	OutcomeError       = "error"
)

func ObserveDispatch(requestType, outcome string) {
	if requestType == "" {
		requestType = "none"
	}
	DispatchTotal.WithLabelValues(requestType, outcome).Inc()
}

// Handler returns an http.Handler that serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware wraps an http.Handler to record request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
