// Package config defines the console's configuration structures.  No I/O or
// parsing logic lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/turtacn/DeepBDE-Console/internal/infrastructure/monitoring/logging"
)

// ServiceConfig points the console at the remote prediction service.
type ServiceConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RetryMax  int           `mapstructure:"retry_max"`
	RetryWait time.Duration `mapstructure:"retry_wait"`
	UserAgent string        `mapstructure:"user_agent"`
}

// ViewportConfig holds the pan/zoom defaults for every displayed diagram.
type ViewportConfig struct {
	InitialZoom float64 `mapstructure:"initial_zoom"`
}

// BatchConfig holds batch-analysis tunables.
type BatchConfig struct {
	HistorySize  int    `mapstructure:"history_size"`
	Progress     string `mapstructure:"progress"` // "auto" | "terminal" | "ci" | "off"
	ExportSMILES bool   `mapstructure:"export_smiles"`
	ExportXYZ    bool   `mapstructure:"export_xyz"`
}

// RedisConfig enables the shared descriptor history.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	Key          string        `mapstructure:"key"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MinIOConfig holds object-storage parameters for the export sink.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// ExportConfig selects where export payloads are written.
type ExportConfig struct {
	Sink string `mapstructure:"sink"` // "dir" | "minio"
	Dir  string `mapstructure:"dir"`
}

// ServerConfig holds the HTTP API tunables.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests per second per client, 0 disables
	RateBurst       int           `mapstructure:"rate_burst"`
}

// MetricsConfig controls the Prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// EditorConfig locates the drawing editor's message endpoint.
type EditorConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the root configuration object.
type Config struct {
	Service  ServiceConfig     `mapstructure:"service"`
	Viewport ViewportConfig    `mapstructure:"viewport"`
	Batch    BatchConfig       `mapstructure:"batch"`
	Log      logging.LogConfig `mapstructure:"log"`
	Redis    RedisConfig       `mapstructure:"redis"`
	MinIO    MinIOConfig       `mapstructure:"minio"`
	Export   ExportConfig      `mapstructure:"export"`
	Server   ServerConfig      `mapstructure:"server"`
	Metrics  MetricsConfig     `mapstructure:"metrics"`
	Editor   EditorConfig      `mapstructure:"editor"`
}

var (
	validProgress = map[string]bool{"auto": true, "terminal": true, "ci": true, "off": true}
	validSinks    = map[string]bool{"dir": true, "minio": true}
)

// Validate checks cross-field constraints. It expects ApplyDefaults to have run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service.base_url must be an absolute http(s) URL, got %q", c.Service.BaseURL)
	}
	if c.Service.RetryMax < 0 {
		return fmt.Errorf("service.retry_max must be >= 0")
	}
	if c.Viewport.InitialZoom < 0.1 || c.Viewport.InitialZoom > 15 {
		return fmt.Errorf("viewport.initial_zoom must be within [0.1, 15], got %v", c.Viewport.InitialZoom)
	}
	if c.Batch.HistorySize < 1 {
		return fmt.Errorf("batch.history_size must be >= 1")
	}
	if !validProgress[c.Batch.Progress] {
		return fmt.Errorf("batch.progress must be one of auto, terminal, ci, off")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if !validSinks[c.Export.Sink] {
		return fmt.Errorf("export.sink must be dir or minio, got %q", c.Export.Sink)
	}
	if c.Export.Sink == "minio" && (c.MinIO.Endpoint == "" || c.MinIO.Bucket == "") {
		return fmt.Errorf("minio.endpoint and minio.bucket are required for the minio export sink")
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}
	return nil
}

//Personal.AI order the ending
