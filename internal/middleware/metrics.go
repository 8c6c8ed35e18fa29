package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts finished requests.
	// Labels: method, route (chi pattern), status
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daytracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// requestDuration measures handler latency.
	// Labels: method, route
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daytracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})
)

// Metrics records every request under its chi route pattern, so ids in the
// path do not create new series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := newLoggingWriter(w)

		next.ServeHTTP(lw, r)

		route := routePattern(r)
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(lw.status)).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
