package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultServiceBaseURL   = "http://localhost:8000"
	DefaultServiceTimeout   = 60 * time.Second
	DefaultServiceRetryMax  = 3
	DefaultServiceRetryWait = time.Second
	DefaultUserAgent        = "bdectl"

	DefaultInitialZoom = 1.0

	DefaultHistorySize = 10
	DefaultProgress    = "auto"

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisKey  = "bde:history"

	DefaultExportSink = "dir"
	DefaultExportDir  = "./exports"

	DefaultServerAddr            = ":8080"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 5 * time.Minute
	DefaultServerShutdownTimeout = 10 * time.Second
	DefaultServerRateBurst       = 20

	DefaultMetricsNamespace = "bde"

	DefaultEditorTimeout = 5 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg. Explicit values win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = DefaultServiceBaseURL
	}
	if cfg.Service.Timeout == 0 {
		cfg.Service.Timeout = DefaultServiceTimeout
	}
	if cfg.Service.RetryWait == 0 {
		cfg.Service.RetryWait = DefaultServiceRetryWait
	}
	if cfg.Service.UserAgent == "" {
		cfg.Service.UserAgent = DefaultUserAgent
	}

	if cfg.Viewport.InitialZoom == 0 {
		cfg.Viewport.InitialZoom = DefaultInitialZoom
	}

	if cfg.Batch.HistorySize == 0 {
		cfg.Batch.HistorySize = DefaultHistorySize
	}
	if cfg.Batch.Progress == "" {
		cfg.Batch.Progress = DefaultProgress
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.Key == "" {
		cfg.Redis.Key = DefaultRedisKey
	}

	if cfg.Export.Sink == "" {
		cfg.Export.Sink = DefaultExportSink
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = DefaultExportDir
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = DefaultServerRateBurst
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if cfg.Editor.Timeout == 0 {
		cfg.Editor.Timeout = DefaultEditorTimeout
	}
}

// NewDefaultConfig returns a Config populated with defaults only.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Service: ServiceConfig{RetryMax: DefaultServiceRetryMax},
		Batch:   BatchConfig{ExportSMILES: true, ExportXYZ: true},
		Metrics: MetricsConfig{Enabled: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

// registerDefaults seeds v with every key so that AutomaticEnv can resolve
// BDE_* overrides for keys that are absent from the config file.
func registerDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("service.base_url", d.Service.BaseURL)
	v.SetDefault("service.api_key", "")
	v.SetDefault("service.timeout", d.Service.Timeout)
	v.SetDefault("service.retry_max", d.Service.RetryMax)
	v.SetDefault("service.retry_wait", d.Service.RetryWait)
	v.SetDefault("service.user_agent", d.Service.UserAgent)

	v.SetDefault("viewport.initial_zoom", d.Viewport.InitialZoom)

	v.SetDefault("batch.history_size", d.Batch.HistorySize)
	v.SetDefault("batch.progress", d.Batch.Progress)
	v.SetDefault("batch.export_smiles", d.Batch.ExportSMILES)
	v.SetDefault("batch.export_xyz", d.Batch.ExportXYZ)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file.path", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", d.Redis.Key)

	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "")
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.prefix", "")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("export.sink", d.Export.Sink)
	v.SetDefault("export.dir", d.Export.Dir)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)

	v.SetDefault("editor.url", "")
	v.SetDefault("editor.timeout", d.Editor.Timeout)
}

//Personal.AI order the ending
