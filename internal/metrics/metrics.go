// Package metrics exposes Prometheus instrumentation for the HTTP
// surface and the offline cache.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripbuddy_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tripbuddy_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	cacheDownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripbuddy_cache_downloads_total",
		Help: "Offline cache download attempts by kind and result.",
	}, []string{"kind", "result"})

	cacheRecordedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tripbuddy_cache_recorded_bytes",
		Help: "Total bytes recorded in the offline cache inventory, as of the last size refresh.",
	})
)

// RecordCacheDownload counts one download attempt for "document" or
// "region", with result "success" or "failure".
func RecordCacheDownload(kind string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	cacheDownloadsTotal.WithLabelValues(kind, result).Inc()
}

// SetCacheRecordedBytes updates the cache size gauge.
func SetCacheRecordedBytes(total int64) {
	cacheRecordedBytes.Set(float64(total))
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a route handler with request count and latency
// metrics. The route label is the registered pattern, not the raw URL,
// to keep cardinality bounded.
func Instrument(route string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r, ps)

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	}
}
