package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unmatchedRoute = "unmatched"

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habit_tracker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	taskToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_tracker_task_toggles_total",
			Help: "Daily task completion toggles by resulting state",
		},
		[]string{"done"},
	)
)

// PrometheusMiddleware records request duration per route pattern.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		httpRequestDuration.WithLabelValues(r.Method, routeLabel(r), strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	})
}

// routeLabel is the matched chi pattern, or "unmatched"
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return unmatchedRoute
}

// RecordToggle counts a completed toggle
func RecordToggle(done bool) {
	taskToggles.WithLabelValues(strconv.FormatBool(done)).Inc()
}
