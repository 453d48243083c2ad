package cli

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/application/bde"
	"github.com/turtacn/DeepBDE-Console/internal/application/reporting"
	"github.com/turtacn/DeepBDE-Console/internal/config"
	"github.com/turtacn/DeepBDE-Console/internal/domain/history"
	"github.com/turtacn/DeepBDE-Console/internal/domain/molecule"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/database/redis"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/storage/minio"
	"github.com/turtacn/DeepBDE-Console/internal/intelligence/chem_engine"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

type cliContextKey struct{}

// CLIDeps overrides parts of the production wiring. Nil fields are built
// from configuration.
type CLIDeps struct {
	Service bde.PredictionService
	Logger  logging.Logger
	Sink    reporting.Sink
}

// CLIContext is what every subcommand runs against. Backends behind it are
// opened lazily and released by Close.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Client       *client.Client
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration

	deps   CLIDeps
	errOut io.Writer

	mu        sync.Mutex
	engine    *chem_engine.Engine
	gate      *molecule.Gate
	recent    *history.List
	session   *bde.Session
	collector prometheus.MetricsCollector
	metrics   *prometheus.AppMetrics
	redis     *redis.Client
	minio     *minio.Store
	closers   []func() error
	closed    bool
}

// GetCLIContext fails when cmd did not pass through the root pre-run.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	if ctx := cmd.Context(); ctx != nil {
		if c, ok := ctx.Value(cliContextKey{}).(*CLIContext); ok && c != nil {
			return c, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInternal, "command ran without a CLI context")
}

// OperationContext applies --timeout to parent.
func (c *CLIContext) OperationContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(parent, c.Timeout)
	}
	return context.WithCancel(parent)
}

// Gate returns the validation gate over an initialized structure engine.
func (c *CLIContext) Gate(ctx context.Context) (*molecule.Gate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gateLocked(ctx)
}

func (c *CLIContext) gateLocked(ctx context.Context) (*molecule.Gate, error) {
	if c.gate != nil {
		return c.gate, nil
	}
	c.engine = chem_engine.New(c.Logger.Named("engine"))
	if err := c.engine.Init(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEngineNotReady, "structure engine failed to start")
	}
	c.gate = molecule.NewGate(c.engine)
	return c.gate, nil
}

// Metrics returns the application metrics, or nil when disabled.  The
// collector is created on first use.
func (c *CLIContext) Metrics() (*prometheus.AppMetrics, prometheus.MetricsCollector, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Config.Metrics.Enabled || c.collector != nil {
		return c.metrics, c.collector, nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:      c.Config.Metrics.Namespace,
		GoMetrics:      true,
		ProcessMetrics: true,
	}, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	c.collector = collector
	c.metrics = prometheus.NewAppMetrics(collector)
	return c.metrics, c.collector, nil
}

// History opens the descriptor history.  With redis enabled the list is
// shared across invocations; otherwise it lives for this process only.
func (c *CLIContext) History(ctx context.Context) (*history.List, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.historyLocked(ctx)
}

func (c *CLIContext) historyLocked(ctx context.Context) (*history.List, error) {
	if c.recent != nil {
		return c.recent, nil
	}
	var store history.Store = history.NewMemoryStore()
	if rc := c.Config.Redis; rc.Enabled {
		if c.redis == nil {
			rdb, err := redis.NewClient(redis.Config{
				Addr:         rc.Addr,
				Password:     rc.Password,
				DB:           rc.DB,
				DialTimeout:  rc.DialTimeout,
				ReadTimeout:  rc.ReadTimeout,
				WriteTimeout: rc.WriteTimeout,
			}, c.Logger)
			if err != nil {
				return nil, err
			}
			c.redis = rdb
			c.closers = append(c.closers, rdb.Close)
		}
		store = redis.NewHistoryStore(c.redis, rc.Key, c.Logger)
	}
	list := history.NewList(c.Config.Batch.HistorySize, store)
	if err := list.Restore(ctx); err != nil {
		c.Logger.Warn("history restore failed", logging.Err(err))
	}
	c.recent = list
	return list, nil
}

// Session returns the console session, wiring it on first use.
func (c *CLIContext) Session(ctx context.Context) (*bde.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return c.session, nil
	}

	gate, err := c.gateLocked(ctx)
	if err != nil {
		return nil, err
	}
	list, err := c.historyLocked(ctx)
	if err != nil {
		return nil, err
	}

	svc := c.deps.Service
	if svc == nil {
		svc = c.Client.Predictions()
	}
	progress := bde.NewProgress(c.Config.Batch.Progress, c.errOut)
	if c.OutputFormat == "json" {
		progress = bde.NewProgress(bde.ProgressOff, nil)
	}

	c.session = bde.NewSession(svc, gate, bde.SessionOptions{
		Evaluate: bde.EvaluateOptions{
			ExportSMILES: c.Config.Batch.ExportSMILES,
			ExportXYZ:    c.Config.Batch.ExportXYZ,
		},
		InitialZoom: c.Config.Viewport.InitialZoom,
		Progress:    progress,
		History:     list,
		Metrics:     c.metrics,
		Logger:      c.Logger,
	})
	return c.session, nil
}

// Sink returns the configured export destination.
func (c *CLIContext) Sink() (reporting.Sink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deps.Sink != nil {
		return c.deps.Sink, nil
	}
	return c.sinkLocked()
}

func (c *CLIContext) sinkLocked() (reporting.Sink, error) {
	if c.Config.Export.Sink != "minio" {
		return reporting.NewDirSink(c.Config.Export.Dir), nil
	}
	if c.minio == nil {
		mc := c.Config.MinIO
		store, err := minio.Open(minio.Config{
			Endpoint:  mc.Endpoint,
			AccessKey: mc.AccessKey,
			SecretKey: mc.SecretKey,
			UseSSL:    mc.UseSSL,
			Region:    mc.Region,
			Bucket:    mc.Bucket,
			Prefix:    mc.Prefix,
		}, c.Logger)
		if err != nil {
			return nil, err
		}
		c.minio = store
		c.closers = append(c.closers, store.Close)
	}
	return c.minio, nil
}

// Close stops the session and closes opened backends in reverse order.
// Later calls are no-ops.
func (c *CLIContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.session != nil {
		c.session.Close()
	}
	errs := make([]error, 0, len(c.closers))
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	_ = c.Logger.Sync()
	return stderrors.Join(errs...)
}

//Personal.AI order the ending
