// Package metrics provides Prometheus metrics for the drive server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drive_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drive_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	uploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drive_upload_bytes_total",
			Help: "Total bytes accepted by the upload endpoint",
		},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drive_mutations_total",
			Help: "Hierarchy mutations by operation, item kind and result",
		},
		[]string{"operation", "kind", "result"},
	)

	blobOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drive_blob_operation_duration_seconds",
			Help:    "Object store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "result"},
	)
)

// Handler returns the /metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one served request. route is the mux pattern,
// not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpload adds accepted upload bytes
func RecordUpload(size int64) {
	uploadBytesTotal.Add(float64(size))
}

// RecordMutation counts a hierarchy operation outcome
func RecordMutation(operation, kind string, err error) {
	mutationsTotal.WithLabelValues(operation, kind, result(err)).Inc()
}

// RecordBlobOperation observes an object store call
func RecordBlobOperation(operation string, duration time.Duration, err error) {
	blobOperationDuration.WithLabelValues(operation, result(err)).Observe(duration.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
