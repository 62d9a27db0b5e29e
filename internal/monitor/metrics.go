package monitor

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal HTTP request counter
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fooddelivery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP request latency histogram
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fooddelivery_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// CheckoutTotal checkout attempts by result
	CheckoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fooddelivery_checkout_total",
			Help: "Total number of checkout attempts by result",
		},
		[]string{"result"},
	)

	// CheckoutDuration end-to-end checkout latency
	CheckoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fooddelivery_checkout_duration_seconds",
			Help:    "End to end checkout latency",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// PaymentCapturesTotal payment captures by outcome
	PaymentCapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fooddelivery_payment_captures_total",
			Help: "Total number of payment captures by outcome",
		},
		[]string{"outcome"},
	)

	// CompensationFailuresTotal inventory restores that failed after a
	// payment failure. Non zero means manual reconciliation is needed.
	CompensationFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fooddelivery_inventory_compensation_failures_total",
			Help: "Inventory compensations that failed and need reconciliation",
		},
	)

	// DispatchTotal notification dispatches by outcome
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fooddelivery_notification_dispatch_total",
			Help: "Total number of notification dispatches by outcome",
		},
		[]string{"outcome"},
	)

	// RegionCacheTotal service region cache lookups
	RegionCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fooddelivery_region_cache_total",
			Help: "Service region cache lookups by result",
		},
		[]string{"result"},
	)
)

// Checkout result labels
const (
	ResultSuccess              = "success"
	ResultValidationError      = "validation_error"
	ResultInsufficientQuantity = "insufficient_quantity"
	ResultPaymentFailed        = "payment_failed"
	ResultInternalError        = "internal_error"
)

// MetricsMiddleware gin middleware recording request metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
