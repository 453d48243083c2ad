package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
)

// MetricsCollector creates metric vectors in a private registry and serves
// that registry over HTTP.  Registering a name twice returns the first
// vector.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

type Counter interface {
	Inc()
	Add(delta float64)
}

type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

type Histogram interface {
	Observe(value float64)
}

// CollectorConfig names the metrics and selects the runtime collectors.
type CollectorConfig struct {
	Namespace      string
	Subsystem      string
	GoMetrics      bool
	ProcessMetrics bool
	// Buckets is used by RegisterHistogram calls without their own buckets.
	Buckets []float64
}

type registry struct {
	reg    *prometheus.Registry
	cfg    CollectorConfig
	logger logging.Logger

	mu     sync.Mutex
	byName map[string]prometheus.Collector
}

// NewMetricsCollector returns a collector over a fresh registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("metrics namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}

	reg := prometheus.NewRegistry()
	if cfg.GoMetrics {
		reg.MustRegister(collectors.NewGoCollector())
	}
	if cfg.ProcessMetrics {
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	return &registry{reg: reg, cfg: cfg, logger: logger, byName: make(map[string]prometheus.Collector)}, nil
}

func (r *registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *registry) opts(name, help string) prometheus.Opts {
	return prometheus.Opts{Namespace: r.cfg.Namespace, Subsystem: r.cfg.Subsystem, Name: name, Help: help}
}

// lookup registers fresh under name unless name is taken, and returns the
// vector held under name when it has type V.
func lookup[V prometheus.Collector](r *registry, kind, name string, fresh V) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero V
	key := prometheus.BuildFQName(r.cfg.Namespace, r.cfg.Subsystem, name)
	held, ok := r.byName[key]
	if !ok {
		if err := r.reg.Register(fresh); err != nil {
			r.logger.Error("metric registration failed", logging.String("name", key), logging.Err(err))
			return zero, false
		}
		r.byName[key] = fresh
		return fresh, true
	}
	v, ok := held.(V)
	if !ok {
		r.logger.Warn("metric registered with another type", logging.String("name", key), logging.String("want", kind))
		return zero, false
	}
	return v, true
}

func (r *registry) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec, ok := lookup(r, "counter", name, prometheus.NewCounterVec(prometheus.CounterOpts(r.opts(name, help)), labels))
	if !ok {
		return noopCounters{}
	}
	return counterVec{vec}
}

func (r *registry) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec, ok := lookup(r, "gauge", name, prometheus.NewGaugeVec(prometheus.GaugeOpts(r.opts(name, help)), labels))
	if !ok {
		return noopGauges{}
	}
	return gaugeVec{vec}
}

func (r *registry) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = r.cfg.Buckets
	}
	o := r.opts(name, help)
	vec, ok := lookup(r, "histogram", name, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: o.Namespace,
		Subsystem: o.Subsystem,
		Name:      o.Name,
		Help:      o.Help,
		Buckets:   buckets,
	}, labels))
	if !ok {
		return noopHistograms{}
	}
	return histogramVec{vec}
}

type counterVec struct{ *prometheus.CounterVec }

func (v counterVec) WithLabelValues(lvs ...string) Counter { return v.CounterVec.WithLabelValues(lvs...) }

type gaugeVec struct{ *prometheus.GaugeVec }

func (v gaugeVec) WithLabelValues(lvs ...string) Gauge { return v.GaugeVec.WithLabelValues(lvs...) }

type histogramVec struct{ *prometheus.HistogramVec }

func (v histogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.HistogramVec.WithLabelValues(lvs...)
}

// The noop vectors stand in for vectors that could not be registered.
type (
	noopCounters   struct{}
	noopGauges     struct{}
	noopHistograms struct{}
)

func (noopCounters) WithLabelValues(...string) Counter { return noopMetric{} }
func (noopGauges) WithLabelValues(...string) Gauge { return noopMetric{} }
func (noopHistograms) WithLabelValues(...string) Histogram { return noopMetric{} }

type noopMetric struct{}

func (noopMetric) Inc()            {}
func (noopMetric) Dec()            {}
func (noopMetric) Add(float64)     {}
func (noopMetric) Set(float64)     {}
func (noopMetric) Observe(float64) {}

//Personal.AI order the ending
