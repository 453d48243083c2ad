package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DeepBDE-Console/internal/testutil"
)

func newCollector(t *testing.T, cfg CollectorConfig) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(cfg, nil)
	require.NoError(t, err)
	return c
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{Subsystem: "memo"}, nil)
	assert.Error(t, err)
}

func TestNewMetricsCollector_RuntimeCollectors(t *testing.T) {
	body := scrape(t, newCollector(t, CollectorConfig{Namespace: "bde", GoMetrics: true, ProcessMetrics: true}))
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "bde_process_cpu_seconds_total")

	assert.NotContains(t, scrape(t, newCollector(t, CollectorConfig{Namespace: "bde"})), "go_goroutines")
}

func TestRegister_Vectors(t *testing.T) {
	c := newCollector(t, CollectorConfig{Namespace: "bde", Subsystem: "memo"})

	c.RegisterCounter("lookups_total", "lookups", "operation").WithLabelValues("canonicalize").Add(5)
	c.RegisterGauge("entries", "entries").WithLabelValues().Set(10)
	c.RegisterHistogram("call_seconds", "latency", nil).WithLabelValues().Observe(0.1)
	c.RegisterHistogram("run_seconds", "latency", []float64{1, 60}).WithLabelValues().Observe(3)

	body := scrape(t, c)
	assert.Contains(t, body, `bde_memo_lookups_total{operation="canonicalize"} 5`)
	assert.Contains(t, body, "bde_memo_entries 10")
	assert.Contains(t, body, `bde_memo_call_seconds_bucket{le="0.25"} 1`)
	assert.Contains(t, body, `bde_memo_run_seconds_bucket{le="60"} 1`)
	assert.NotContains(t, body, `bde_memo_run_seconds_bucket{le="0.25"}`)
}

func TestRegister_SameNameSharesVector(t *testing.T) {
	c := newCollector(t, CollectorConfig{Namespace: "bde"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("batch_items_total", "items", "status").WithLabelValues("analyzed").Inc()
		}()
	}
	wg.Wait()

	assert.Contains(t, scrape(t, c), `bde_batch_items_total{status="analyzed"} 50`)
}

func TestRegister_TypeConflictIsNoop(t *testing.T) {
	logger := testutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "bde"}, logger)
	require.NoError(t, err)

	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()
	assert.NotPanics(t, func() {
		c.RegisterGauge("conflict", "help").WithLabelValues().Set(10)
		c.RegisterHistogram("conflict", "help", nil).WithLabelValues().Observe(1)
	})

	assert.Contains(t, scrape(t, c), "# TYPE bde_conflict counter")
	assert.Len(t, logger.ByLevel("warn"), 2)
}

func TestRegister_InvalidLabelIsNoop(t *testing.T) {
	logger := testutil.NewMockLogger()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "bde"}, logger)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		c.RegisterCounter("bad_labels", "help", "le-bad").WithLabelValues("x").Inc()
	})
	assert.NotEmpty(t, logger.ByLevel("error"))
}

//Personal.AI order the ending
