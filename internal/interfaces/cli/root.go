// Package cli implements bdectl, the command-line face of the DeepBDE
// console.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/DeepBDE-Console/internal/config"
	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DeepBDE-Console/pkg/client"
	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

// Set with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var outputFormats = map[string]bool{"text": true, "json": true, "table": true}

// RootOptions are the persistent flags shared by every subcommand.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServiceURL   string
}

func (o *RootOptions) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&o.ConfigPath, "config", "c", "", "config file (searched: ./bdectl.yaml, ~/.bdectl/config.yaml, /etc/bdectl/config.yaml)")
	pf.StringVar(&o.LogLevel, "log-level", "", "debug, info, warn or error; overrides log.level")
	pf.StringVarP(&o.OutputFormat, "output", "o", "text", "text, json or table")
	pf.BoolVarP(&o.Verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&o.NoColor, "no-color", false, "plain output without ANSI colors")
	pf.DurationVar(&o.Timeout, "timeout", 2*time.Minute, "upper bound for one command")
	pf.StringVar(&o.ServiceURL, "service-url", "", "prediction service root; overrides service.base_url")
}

// NewRootCmd builds the bdectl command tree. deps may be nil.
func NewRootCmd(deps *CLIDeps) *cobra.Command {
	cmd, _ := newRootCmd(deps)
	return cmd
}

// newRootCmd also returns a cleanup func, since cobra skips post-run hooks
// when RunE fails.
func newRootCmd(deps *CLIDeps) (*cobra.Command, func()) {
	if deps == nil {
		deps = &CLIDeps{}
	}
	opts := &RootOptions{}
	var active *CLIContext
	release := func() error {
		if active == nil {
			return nil
		}
		return active.Close()
	}

	cmd := &cobra.Command{
		Use:   "bdectl",
		Short: "DeepBDE console: bond dissociation energy predictions from the command line",
		Long: "bdectl validates molecular descriptors locally, submits them to a DeepBDE\n" +
			"prediction service and renders, summarizes and exports the predicted bond\n" +
			"dissociation energies.  `bdectl serve` exposes the same pipeline over HTTP.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			active, err = bootstrap(cmd, opts, *deps)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error { return release() },
	}
	opts.register(cmd)

	cmd.AddCommand(
		newValidateCmd(),
		newInfoCmd(),
		newFragmentCmd(),
		newPredictCmd(),
		newBatchCmd(),
		newReportCmd(),
		newHistoryCmd(),
		newEditorCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return cmd, func() { _ = release() }
}

// bootstrap resolves configuration, logger and service client and attaches
// the resulting CLIContext to cmd.
func bootstrap(cmd *cobra.Command, opts *RootOptions, deps CLIDeps) (*CLIContext, error) {
	format := strings.ToLower(opts.OutputFormat)
	if !outputFormats[format] {
		return nil, errors.New(errors.ErrCodeBadRequest, "unsupported output format").WithDetail(opts.OutputFormat)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("config initialization failed: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		if logger, err = cliLogger(cfg.Log); err != nil {
			return nil, fmt.Errorf("logger initialization failed: %w", err)
		}
	}
	svc, err := serviceClient(cfg.Service, logger)
	if err != nil {
		return nil, fmt.Errorf("client initialization failed: %w", err)
	}

	c := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Client:       svc,
		OutputFormat: format,
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
		deps:         deps,
		errOut:       cmd.ErrOrStderr(),
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, c))
	return c, nil
}

// resolveConfig layers flags over environment over file over defaults.
func resolveConfig(opts *RootOptions) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = discoverConfig()
	}
	load := config.LoadFromEnv
	if path != "" {
		load = func() (*config.Config, error) { return config.Load(path) }
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if opts.ServiceURL != "" {
		cfg.Service.BaseURL = opts.ServiceURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	switch {
	case opts.Verbose:
		cfg.Log.Level = logging.LevelDebug
	case opts.LogLevel != "":
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

func discoverConfig() string {
	candidates := []string{"bdectl.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".bdectl", "config.yaml"))
	}
	candidates = append(candidates, filepath.Join("/etc", "bdectl", "config.yaml"))
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// cliLogger writes console-encoded entries to stderr so stdout carries
// only command results.
func cliLogger(lc logging.LogConfig) (logging.Logger, error) {
	lc.Format = "console"
	if len(lc.OutputPaths) == 0 {
		lc.OutputPaths = []string{"stderr"}
	}
	if lc.Level == "" {
		lc.Level = logging.LevelWarn
	}
	return logging.NewLogger(lc)
}

func serviceClient(sc config.ServiceConfig, logger logging.Logger) (*client.Client, error) {
	return client.NewClient(sc.BaseURL, sc.APIKey,
		client.WithTimeout(sc.Timeout),
		client.WithRetryMax(sc.RetryMax),
		client.WithRetryWait(sc.RetryWait, 10*sc.RetryWait),
		client.WithUserAgent(sc.UserAgent),
		client.WithLogger(clientLogger{logger.Named("client")}),
	)
}

// clientLogger feeds the SDK's printf-style calls into logging.Logger.
type clientLogger struct {
	l logging.Logger
}

func (c clientLogger) Debugf(format string, args ...interface{}) { c.l.Debug(fmt.Sprintf(format, args...)) }
func (c clientLogger) Infof(format string, args ...interface{})  { c.l.Info(fmt.Sprintf(format, args...)) }
func (c clientLogger) Errorf(format string, args ...interface{}) { c.l.Error(fmt.Sprintf(format, args...)) }

// Execute runs bdectl and prints any error to stderr.
func Execute(ctx context.Context) error {
	cmd, cleanup := newRootCmd(nil)
	defer cleanup()
	err := cmd.ExecuteContext(ctx)
	PrintError(cmd, err)
	return err
}

//Personal.AI order the ending
