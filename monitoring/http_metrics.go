package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// HTTPMiddleware records request counts and latency labelled by route pattern.
func HTTPMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()

		code := http.StatusOK
		if err != nil {
			code = errorStatus(err)
		} else if sw, ok := e.Response.(interface{ Status() int }); ok && sw.Status() != 0 {
			code = sw.Status()
		}

		path := e.Request.Pattern
		if path == "" {
			path = "unmatched"
		}
		labels := []string{e.Request.Method, path, strconv.Itoa(code)}
		requestCounter.WithLabelValues(labels...).Inc()
		requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

func errorStatus(err error) int {
	if apiErr, ok := err.(*router.ApiError); ok {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

// Handler exposes the default registry.
func Handler() func(e *core.RequestEvent) error {
	return apis.WrapStdHandler(promhttp.Handler())
}
