package initializers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "live", cfg.Backend.Mode)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 60, cfg.Poll.MaxAttempts)
	assert.Equal(t, 100, cfg.RateLimit.Global)
	assert.Equal(t, 10, cfg.RateLimit.Strict)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
backend:
  base_url: http://backend:8000
  mode: demo
  timeout: 10s
poll:
  interval: 500ms
  max_attempts: 5
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://backend:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "demo", cfg.Backend.Mode)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, 5, cfg.Poll.MaxAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 100, cfg.RateLimit.Global)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_EnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("PORT", "7070")
	t.Setenv("BACKEND_URL", "http://override:8000")
	t.Setenv("APP_MODE", "demo")
	t.Setenv("POLL_INTERVAL", "1s")
	t.Setenv("POLL_MAX_ATTEMPTS", "7")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "http://override:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "demo", cfg.Backend.Mode)
	assert.Equal(t, time.Second, cfg.Poll.Interval)
	assert.Equal(t, 7, cfg.Poll.MaxAttempts)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad mode", map[string]string{"APP_MODE": "hybrid"}},
		{"bad port", map[string]string{"PORT": "70000"}},
		{"bad poll attempts", map[string]string{"POLL_MAX_ATTEMPTS": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
