// Package metrics provides Prometheus metrics collection for the storefront.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// CartAdditionsTotal counts add-to-cart operations by product name and outcome.
	CartAdditionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_additions_total",
			Help: "Total number of add to cart operations",
		},
		[]string{"product", "status"},
	)

	// CartDispatchDuration tracks load-reduce-save latency of a cart action.
	CartDispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cart_dispatch_duration_seconds",
			Help:    "Cart action dispatch duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		},
	)

	// CartSubscribers tracks open live cart subscriptions.
	CartSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_subscribers",
			Help: "Number of open live cart subscriptions",
		},
	)

	// SessionStoreOperationsTotal tracks session cart store operations.
	SessionStoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_operations_total",
			Help: "Total number of session cart store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// SessionsActive tracks carts held by the in-memory session store.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_sessions_active",
			Help: "Number of session carts held in memory",
		},
	)

	// CircuitBreakerState exposes breaker state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state: 0 closed, 1 open, 2 half-open",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordCartAddition records an add to cart outcome.
func RecordCartAddition(product, status string) {
	CartAdditionsTotal.WithLabelValues(product, status).Inc()
}

// RecordDispatch records the duration of one cart dispatch.
func RecordDispatch(duration time.Duration) {
	CartDispatchDuration.Observe(duration.Seconds())
}

// RecordSessionStoreOperation records one session store call.
func RecordSessionStoreOperation(backend, operation, result string) {
	SessionStoreOperationsTotal.WithLabelValues(backend, operation, result).Inc()
}

// SetSessionsActive updates the in-memory session gauge.
func SetSessionsActive(n int) {
	SessionsActive.Set(float64(n))
}

// SetCircuitBreakerState records a breaker state transition.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
