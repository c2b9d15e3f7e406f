package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	upstreamLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_upstream_lookups_total",
		Help: "Upstream lookups by resource and outcome (hit, miss, error, disabled)",
	}, []string{"resource", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_upstream_request_duration_seconds",
		Help:    "Duration of upstream requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})

	resolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_resolved_total",
		Help: "Read-through lookups by resource and the source that answered",
	}, []string{"resource", "source"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveUpstream(resource, outcome string, duration time.Duration) {
	upstreamLookups.WithLabelValues(resource, outcome).Inc()
	if duration > 0 {
		upstreamDuration.WithLabelValues(resource).Observe(duration.Seconds())
	}
}

func ObserveResolved(resource, source string) {
	resolvedTotal.WithLabelValues(resource, source).Inc()
}

func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// Middleware records every request under its route template so path
// parameters do not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
