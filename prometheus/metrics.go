package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP request metrics
var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ims_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ims_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HttpStatusCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ims_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category", "method", "path"},
	)
)

// Authentication metrics
var (
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ims_auth_login_total",
			Help: "Total number of login attempts",
		},
	)

	SignupCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ims_auth_signup_total",
			Help: "Total number of group signups",
		},
	)

	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ims_auth_errors_total",
			Help: "Total number of authentication and authorization errors",
		},
		[]string{"type"}, // "missing_session", "invalid_session", "unknown_user", "forbidden", "invalid_credentials", "invalid_request"
	)
)

// Domain metrics
var (
	DbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ims_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	EntityOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ims_entity_operations_total",
			Help: "Total number of store operations by entity",
		},
		[]string{"entity", "operation", "result"},
	)

	TrackingTransitionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ims_order_tracking_transitions_total",
			Help: "Order tracking transitions by target status and outcome",
		},
		[]string{"target", "result"},
	)

	EventPublishCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ims_events_published_total",
			Help: "Order events handed to the event bus",
		},
		[]string{"type", "result"},
	)
)

func init() {
	prometheus.MustRegister(HttpRequestsTotal)
	prometheus.MustRegister(HttpRequestDuration)
	prometheus.MustRegister(HttpStatusCategoryCounter)

	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(SignupCounter)
	prometheus.MustRegister(AuthErrorCounter)

	prometheus.MustRegister(DbOperationDuration)
	prometheus.MustRegister(EntityOperationsCounter)
	prometheus.MustRegister(TrackingTransitionsCounter)
	prometheus.MustRegister(EventPublishCounter)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	if category := StatusCategory(status); category != "" {
		HttpStatusCategoryCounter.WithLabelValues(category, method, path).Inc()
	}
}

// StatusCategory buckets an HTTP status into 2xx, 4xx or 5xx. Other
// statuses return "".
func StatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		DbOperationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}

// RecordEntityOperation counts a store operation and whether it succeeded
func RecordEntityOperation(entity, operation string, err error) {
	EntityOperationsCounter.WithLabelValues(entity, operation, result(err)).Inc()
}

// RecordTrackingTransition counts an attempted tracking transition
func RecordTrackingTransition(target string, err error) {
	TrackingTransitionsCounter.WithLabelValues(target, result(err)).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordEventPublish counts an event publish attempt
func RecordEventPublish(eventType string, err error) {
	EventPublishCounter.WithLabelValues(eventType, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
