package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultServiceBaseURL, cfg.Service.BaseURL)
	assert.Equal(t, DefaultServiceRetryMax, cfg.Service.RetryMax)
	assert.Equal(t, 1.0, cfg.Viewport.InitialZoom)
	assert.True(t, cfg.Batch.ExportSMILES)
	assert.True(t, cfg.Batch.ExportXYZ)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Service:  ServiceConfig{BaseURL: "https://x.example"},
		Viewport: ViewportConfig{InitialZoom: 2},
		Export:   ExportConfig{Dir: "/tmp/out"},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, "https://x.example", cfg.Service.BaseURL)
	assert.Equal(t, 2.0, cfg.Viewport.InitialZoom)
	assert.Equal(t, "/tmp/out", cfg.Export.Dir)
	assert.Equal(t, DefaultExportSink, cfg.Export.Sink)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"ftp url", func(c *Config) { c.Service.BaseURL = "ftp://x" }, false},
		{"zoom below min", func(c *Config) { c.Viewport.InitialZoom = 0.05 }, false},
		{"zoom at max", func(c *Config) { c.Viewport.InitialZoom = 15 }, true},
		{"zero history", func(c *Config) { c.Batch.HistorySize = 0 }, false},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, false},
		{"minio sink complete", func(c *Config) {
			c.Export.Sink = "minio"
			c.MinIO.Endpoint = "minio:9000"
			c.MinIO.Bucket = "exports"
		}, true},
		{"metrics without namespace", func(c *Config) { c.Metrics.Namespace = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

//Personal.AI order the ending
