package gateway

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_gateway_requests_total",
			Help: "Outgoing requests to the coordination API",
		},
		[]string{"scope", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_gateway_request_duration_seconds",
			Help:    "Latency of outgoing requests to the coordination API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope", "method"},
	)
)

// pathScope buckets a request path by credential scope, keeping label
// cardinality flat regardless of path parameters.
func pathScope(path string) string {
	switch {
	case strings.HasPrefix(path, adminPrefix):
		return "admin"
	case strings.HasPrefix(path, doctorPrefix):
		return "doctor"
	default:
		return "public"
	}
}

func observeRequest(method, path string, status int, seconds float64) {
	scope := pathScope(path)
	requestsTotal.WithLabelValues(scope, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(scope, method).Observe(seconds)
}
