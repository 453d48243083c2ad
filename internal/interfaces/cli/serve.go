package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/internal/interfaces/editor"
	httpapi "github.com/turtacn/DeepBDE-Console/internal/interfaces/http"
	"github.com/turtacn/DeepBDE-Console/internal/interfaces/http/handlers"
	"github.com/turtacn/DeepBDE-Console/internal/interfaces/http/middleware"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console HTTP API",
		Long: "serve exposes validation, structure loading, bond evaluation, batch runs,\n" +
			"history and the editor protocol under /api/v1, plus /healthz, /readyz\n" +
			"and /metrics.  SIGINT or SIGTERM triggers a graceful shutdown.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cliCtx.Config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return runServer(ctx, cliCtx, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides server.addr")
	return cmd
}

// runServer serves the API on ln until ctx ends, then shuts down within
// server.shutdown_timeout.
func runServer(ctx context.Context, cliCtx *CLIContext, ln net.Listener) error {
	handler, release, err := buildAPI(ctx, cliCtx)
	if err != nil {
		ln.Close()
		return err
	}
	defer release()

	cfg := cliCtx.Config.Server
	srv := httpapi.NewServer(ln.Addr().String(), handler,
		httpapi.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
		httpapi.WithLogger(cliCtx.Logger))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		cliCtx.Logger.Error("graceful shutdown failed", logging.Err(err))
		return err
	}
	return <-errCh
}

// buildAPI wires the session, health checks and middleware into the route
// tree.  release stops background work started for the router.
func buildAPI(ctx context.Context, cliCtx *CLIContext) (http.Handler, func(), error) {
	metrics, collector, err := cliCtx.Metrics()
	if err != nil {
		return nil, nil, err
	}
	s, err := cliCtx.Session(ctx)
	if err != nil {
		return nil, nil, err
	}
	sink, err := cliCtx.Sink()
	if err != nil {
		return nil, nil, err
	}

	logger := cliCtx.Logger
	cfg := cliCtx.Config.Server
	hist := handlers.NewHistoryHandler(s.History, logger)
	cors := middleware.DefaultCORSConfig(cfg.AllowedOrigins...)
	logCfg := middleware.DefaultLoggingConfig()

	routerCfg := httpapi.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(Version, cliCtx.healthCheckers()...),
		StructureHandler: handlers.NewStructureHandler(s.Workbench, s.Gate, sink, logger),
		BatchHandler:     handlers.NewBatchHandler(s.Analyzer, s.Gate, logger),
		HistoryHandler:   hist,
		EditorHandler:    editor.Handler(editor.GetterFunc(hist.Latest), logger),
		CORS:             &cors,
		Logging:          &logCfg,
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
	}

	release := func() {}
	if cfg.RateLimit > 0 {
		limitCfg := middleware.DefaultRateLimitConfig(cfg.RateLimit, cfg.RateBurst)
		limiter := middleware.NewTokenBucketLimiter(cfg.RateLimit, cfg.RateBurst, limitCfg.CleanupInterval)
		routerCfg.RateLimit = &limitCfg
		routerCfg.Limiter = limiter
		release = limiter.Stop
	}
	return httpapi.NewRouter(routerCfg), release, nil
}

// healthCheckers probes the engine and every backend opened so far.
func (c *CLIContext) healthCheckers() []handlers.HealthChecker {
	c.mu.Lock()
	defer c.mu.Unlock()

	checkers := []handlers.HealthChecker{handlers.EngineChecker(c.gate.Ready)}
	if c.redis != nil {
		checkers = append(checkers, handlers.NewCheckFunc("redis", c.redis.Ping))
	}
	if c.minio != nil {
		checkers = append(checkers, handlers.NewCheckFunc("object_storage", c.minio.Ping))
	}
	return checkers
}

//Personal.AI order the ending
