package router

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rupify/backend/pkg/alerts"
	"github.com/rupify/backend/pkg/httputil"
)

func URLMiddleware(url *url.URL) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(httputil.ContextURL, strings.TrimSuffix(url.String(), "/"))
		c.Next()
	}
}

const metricsNamespace = "rupify"

// routeUnmatched labels requests that did not match any route.
const routeUnmatched = "unmatched"

var metrics = []prometheus.Collector{
	requestCount,
	requestDuration,
	requestsInFlight,
}

// registerPrometheusMetrics registers the HTTP and the budget alert metrics
// with the default registry.
func registerPrometheusMetrics() error {
	for _, c := range metrics {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return alerts.RegisterMetrics(prometheus.DefaultRegisterer)
}

// unregisterPrometheusMetrics unregisters all Prometheus metrics.
//
// Another router can only be configured after this.
func unregisterPrometheusMetrics() bool {
	alerts.UnregisterMetrics(prometheus.DefaultRegisterer)

	ok := true
	for _, c := range metrics {
		ok = prometheus.Unregister(c) && ok
	}

	return ok
}

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "How many HTTP requests processed, partitioned by status code, HTTP method and route.",
	},
	[]string{"code", "method", "route"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "The HTTP request latencies in seconds.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	},
	[]string{"code", "method", "route"},
)

var requestsInFlight = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "How many HTTP requests are currently being served.",
	},
)

// MetricsMiddleware updates Prometheus metrics.
//
// Requests are labelled with the route pattern, e.g. /v1/accounts/:id, so
// that IDs do not create new time series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(seconds float64) {
			requestDuration.WithLabelValues(metricLabels(c)...).Observe(seconds)
		}))

		c.Next()

		timer.ObserveDuration()
		requestCount.WithLabelValues(metricLabels(c)...).Inc()
	}
}

func metricLabels(c *gin.Context) []string {
	route := c.FullPath()
	if route == "" {
		route = routeUnmatched
	}

	return []string{strconv.Itoa(c.Writer.Status()), c.Request.Method, route}
}
