package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "stockroom"

var (
	// RequestDuration tracks HTTP request latency by method, route and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// LowStockItems is the number of items below the low-stock threshold at the last check.
	LowStockItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "low_stock_items",
			Help:      "Items whose available count is below the low-stock threshold",
		},
	)

	// SigninTotal counts signin attempts by outcome (ok, rejected, error).
	SigninTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signin_total",
			Help:      "Signin attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, LowStockItems, SigninTotal)
}

// NormalizePath replaces every numeric path segment with {id}, so
// /api/items/section/3/7 becomes /api/items/section/{id}/{id}.
func NormalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.Atoi(p); err == nil {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

// RecordRequest observes one finished request. route should be the matched
// route pattern; raw paths are normalized first.
func RecordRequest(method, route string, statusCode int, durationSeconds float64) {
	route = NormalizePath(route)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, route, status).Inc()
}

// SetLowStockItems publishes the latest low-stock count.
func SetLowStockItems(n int) {
	LowStockItems.Set(float64(n))
}

// IncSignin records a signin attempt outcome.
func IncSignin(outcome string) {
	SigninTotal.WithLabelValues(outcome).Inc()
}
