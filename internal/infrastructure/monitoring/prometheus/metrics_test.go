package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newCollector(t, CollectorConfig{Namespace: "test", Subsystem: "unit"})
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.RemoteCallsTotal)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.CacheMissesTotal)
	assert.NotNil(t, m.BatchItemsTotal)
	assert.NotNil(t, m.HTTPRequestsTotal)
}

func TestRecordRemoteCall(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordRemoteCall(m, "info", 120*time.Millisecond, nil)
	RecordRemoteCall(m, "fragment", time.Second, errors.New("timeout"))

	out := scrape(t, c)
	assert.Contains(t, out, `test_unit_remote_calls_total{operation="info",status="success"} 1`)
	assert.Contains(t, out, `test_unit_remote_calls_total{operation="fragment",status="failure"} 1`)
	assert.Contains(t, out, `test_unit_remote_call_duration_seconds_count{operation="info"} 1`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordCacheAccess(m, "canonicalize", true)
	RecordCacheAccess(m, "canonicalize", true)
	RecordCacheAccess(m, "evaluate", false)
	RecordCacheSize(m, 3)

	out := scrape(t, c)
	assert.Contains(t, out, `test_unit_cache_hits_total{operation="canonicalize"} 2`)
	assert.Contains(t, out, `test_unit_cache_misses_total{operation="evaluate"} 1`)
	assert.Contains(t, out, "test_unit_cache_entries 3")
}

func TestRecordBatch(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordBatchItem(m, "analyzed")
	RecordBatchItem(m, "warning")
	RecordBatchRun(m, true, 3*time.Second)

	out := scrape(t, c)
	assert.Contains(t, out, `test_unit_batch_items_total{status="analyzed"} 1`)
	assert.Contains(t, out, `test_unit_batch_runs_total{outcome="partial"} 1`)
	assert.Contains(t, out, "test_unit_batch_run_duration_seconds_count 1")
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)

	RecordHTTPRequest(m, "POST", "/api/v1/batch", 200, 50*time.Millisecond)

	assert.Contains(t, scrape(t, c), `test_unit_http_requests_total{method="POST",path="/api/v1/batch",status_code="200"} 1`)
}

func TestRecorders_NilMetricsIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordRemoteCall(nil, "info", time.Second, nil)
		RecordCacheAccess(nil, "info", true)
		RecordCacheSize(nil, 1)
		RecordBatchItem(nil, "analyzed")
		RecordBatchRun(nil, false, time.Second)
		RecordHTTPRequest(nil, "GET", "/", 200, time.Second)
	})
}

//Personal.AI order the ending
