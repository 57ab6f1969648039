package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "confreg_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confreg_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
)

// Engine-level outcome counters, incremented by the handlers.
var (
	RegistrationsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "confreg_registrations_confirmed_total",
		Help: "Registrations confirmed through payment or the free path.",
	})

	AllocationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confreg_allocation_decisions_total",
			Help: "Accommodation allocation decisions by outcome.",
		},
		[]string{"outcome"},
	)
)

// Metrics records request latency and counts per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
