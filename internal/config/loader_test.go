package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

const validConfigYAML = `
service:
  base_url: "https://bde.example.org"
  api_key: "secret"
  timeout: 30s
  retry_max: 5
viewport:
  initial_zoom: 1.5
batch:
  history_size: 20
  progress: ci
  export_xyz: false
log:
  level: debug
  format: console
redis:
  enabled: true
  addr: "redis:6379"
export:
  sink: minio
minio:
  endpoint: "minio:9000"
  bucket: "bde-exports"
server:
  addr: ":9090"
  allowed_origins: ["http://localhost:4200"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://bde.example.org", cfg.Service.BaseURL)
	assert.Equal(t, "secret", cfg.Service.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Service.Timeout)
	assert.Equal(t, 5, cfg.Service.RetryMax)
	assert.Equal(t, 1.5, cfg.Viewport.InitialZoom)
	assert.Equal(t, 20, cfg.Batch.HistorySize)
	assert.Equal(t, "ci", cfg.Batch.Progress)
	assert.True(t, cfg.Batch.ExportSMILES, "unset bool keeps its registered default")
	assert.False(t, cfg.Batch.ExportXYZ)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, DefaultRedisKey, cfg.Redis.Key)
	assert.Equal(t, "minio", cfg.Export.Sink)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DefaultServerShutdownTimeout, cfg.Server.ShutdownTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"relative base url": "service:\n  base_url: \"bde.local\"\n",
		"zoom too large":    "viewport:\n  initial_zoom: 20\n",
		"unknown sink":      "export:\n  sink: s3\n",
		"minio sink bare":   "export:\n  sink: minio\n",
		"bad progress":      "batch:\n  progress: fancy\n",
		"negative retries":  "service:\n  retry_max: -1\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("BDE_SERVICE_BASE_URL", "http://predictor:8000")
	t.Setenv("BDE_BATCH_HISTORY_SIZE", "3")
	t.Setenv("BDE_REDIS_ENABLED", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://predictor:8000", cfg.Service.BaseURL)
	assert.Equal(t, 3, cfg.Batch.HistorySize)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, DefaultServiceRetryMax, cfg.Service.RetryMax)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultServiceBaseURL, cfg.Service.BaseURL)
	assert.Equal(t, DefaultInitialZoom, cfg.Viewport.InitialZoom)
	assert.Equal(t, DefaultHistorySize, cfg.Batch.HistorySize)
	assert.Equal(t, "dir", cfg.Export.Sink)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_ErrorsCarryConfigCode(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfig))

	_, err = Load(writeConfig(t, "service:\n  base_url: \"ftp://bde.local\"\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfig))
	assert.Contains(t, err.Error(), "service.base_url")

	_, err = Load(writeConfig(t, "service: [unterminated\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfig))
}

//Personal.AI order the ending
