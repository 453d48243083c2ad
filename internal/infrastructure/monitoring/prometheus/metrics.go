package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the console's metrics.
type AppMetrics struct {
	// Prediction service
	RemoteCallsTotal   CounterVec
	RemoteCallDuration HistogramVec

	// Request memoizer
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	CacheEntries     GaugeVec

	// Batch analysis
	BatchRunsTotal    CounterVec
	BatchItemsTotal   CounterVec
	BatchRunDuration  HistogramVec
	BatchRunsInFlight GaugeVec

	// HTTP API
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
}

var (
	DefaultRemoteDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultBatchDurationBuckets  = []float64{1, 5, 10, 30, 60, 120, 300, 600}
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.RemoteCallsTotal = collector.RegisterCounter("remote_calls_total", "Prediction service calls", "operation", "status")
	m.RemoteCallDuration = collector.RegisterHistogram("remote_call_duration_seconds", "Prediction service call duration", DefaultRemoteDurationBuckets, "operation")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Memoized request hits", "operation")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Memoized request misses", "operation")
	m.CacheEntries = collector.RegisterGauge("cache_entries", "Memoized responses held by the session")

	m.BatchRunsTotal = collector.RegisterCounter("batch_runs_total", "Batch analysis runs", "outcome")
	m.BatchItemsTotal = collector.RegisterCounter("batch_items_total", "Batch items processed", "status")
	m.BatchRunDuration = collector.RegisterHistogram("batch_run_duration_seconds", "Batch analysis duration", DefaultBatchDurationBuckets)
	m.BatchRunsInFlight = collector.RegisterGauge("batch_runs_in_flight", "Batch analyses currently running")

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")

	return m
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordRemoteCall counts one prediction service call. A nil metrics is a no-op.
func RecordRemoteCall(metrics *AppMetrics, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.RemoteCallsTotal.WithLabelValues(operation, outcome(err)).Inc()
	metrics.RemoteCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCacheAccess counts a memoizer lookup.
func RecordCacheAccess(metrics *AppMetrics, operation string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(operation).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(operation).Inc()
	}
}

// RecordCacheSize publishes the number of memoized responses.
func RecordCacheSize(metrics *AppMetrics, entries int) {
	if metrics == nil {
		return
	}
	metrics.CacheEntries.WithLabelValues().Set(float64(entries))
}

// RecordBatchItem counts a batch item by status (analyzed, warning, skipped).
func RecordBatchItem(metrics *AppMetrics, status string) {
	if metrics == nil {
		return
	}
	metrics.BatchItemsTotal.WithLabelValues(status).Inc()
}

// RecordBatchRun counts a finished batch run.
func RecordBatchRun(metrics *AppMetrics, partial bool, duration time.Duration) {
	if metrics == nil {
		return
	}
	result := "complete"
	if partial {
		result = "partial"
	}
	metrics.BatchRunsTotal.WithLabelValues(result).Inc()
	metrics.BatchRunDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordHTTPRequest counts one served API request.
func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

//Personal.AI order the ending
