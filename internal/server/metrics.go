package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calclab_requests_total",
		Help: "API requests by operation and outcome code",
	}, []string{"operation", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "calclab_request_duration_seconds",
		Help:    "API request latency by operation",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"operation"})

	compileFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "calclab_compile_failures_total",
		Help: "Expressions rejected by the parser",
	})
)

const (
	codeOK                = "OK"
	codeInvalidExpression = "INVALID_EXPRESSION"
	codeInvalidRequest    = "INVALID_REQUEST"
	codeDomainFailure     = "DOMAIN_FAILURE"
	codeInternal          = "INTERNAL"
)

// observe records latency for operation and counts the outcome code the
// handler stored under "code".
func observe(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

		code := codeOK
		if v, ok := c.Get("code"); ok {
			code = v.(string)
		}
		requestsTotal.WithLabelValues(operation, code).Inc()
	}
}
