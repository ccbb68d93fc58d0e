// Package metrics exposes Prometheus instruments for the HTTP surface.
// Scraping happens through the promhttp handler mounted at /metrics.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billing_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "billing_http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
)

// GinMiddleware records request duration and in-flight gauges. Routes
// are the gin route templates, so cardinality stays bounded.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := normalizeRoute(c.FullPath())
		inFlight.Inc()
		start := time.Now()
		c.Next()
		inFlight.Dec()

		requestDuration.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "unknown"
	}
	return route
}
