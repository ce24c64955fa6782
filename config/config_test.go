package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfigValidation tests configuration validation
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "default config", mutate: func(*Config) {}},
		{name: "empty kernel name", mutate: func(c *Config) { c.Kernel.Name = "" }, wantErr: ErrInvalidKernelName},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidLogLevel},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidLogFormat},
		{name: "zero poll interval", mutate: func(c *Config) { c.Capture.PollInterval = 0 }, wantErr: ErrInvalidPollInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

// TestLoader tests YAML configuration loading
func TestLoader(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "kipc.yaml")
	content := `
kernel:
  id: 3
  name: "kernel3"
log:
  level: debug
capture:
  path: /var/run/kipc/slot0.cap
  poll_interval: 100ms
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	config, err := NewLoader().LoadFromFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, uint8(3), config.Kernel.ID)
	assert.Equal(t, "kernel3", config.Kernel.Name)
	assert.Equal(t, LogLevelDebug, config.Log.Level)
	assert.True(t, config.IsDebugEnabled())
	assert.Equal(t, "/var/run/kipc/slot0.cap", config.Capture.Path)
	assert.Equal(t, 100*time.Millisecond, config.Capture.PollInterval)

	// Missing fields come from the defaults
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "stderr", config.Log.Output)
}

// TestLoaderJSON tests JSON configuration loading
func TestLoaderJSON(t *testing.T) {
	content := `{"kernel": {"id": 1, "name": "k1"}, "log": {"format": "json"}}`

	config, err := NewLoader().LoadFromReader(strings.NewReader(content), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), config.Kernel.ID)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, LogLevelInfo, config.Log.Level)
}

func TestLoaderRejectsUnknownFormat(t *testing.T) {
	_, err := NewLoader().LoadFromFile("kipc.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// TestEnvironmentOverrides tests environment variable overrides
func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("KIPCTEST_KERNEL_ID", "9")
	t.Setenv("KIPCTEST_LOG_LEVEL", "WARN")
	t.Setenv("KIPCTEST_CAPTURE_POLL_INTERVAL", "2s")
	t.Setenv("KIPCTEST_CAPTURE_SKIP_INVALID", "true")

	config, err := NewLoader().SetEnvPrefix("KIPCTEST").Load("")
	require.NoError(t, err)

	assert.Equal(t, uint8(9), config.Kernel.ID)
	assert.Equal(t, LogLevelWarn, config.Log.Level)
	assert.Equal(t, 2*time.Second, config.Capture.PollInterval)
	assert.True(t, config.Capture.SkipInvalid)

	t.Run("InvalidKernelID", func(t *testing.T) {
		t.Setenv("KIPCTEST_KERNEL_ID", "300")
		_, err := NewLoader().SetEnvPrefix("KIPCTEST").Load("")
		assert.Error(t, err)
	})
}

// TestAutoLoad tests automatic configuration discovery
func TestAutoLoad(t *testing.T) {
	dir := t.TempDir()

	config, err := NewLoader().SetSearchPaths([]string{dir}).AutoLoad()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Kernel.Name, config.Kernel.Name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "kipc.yml"), []byte("kernel:\n  name: found\n"), 0644))
	config, err = NewLoader().SetSearchPaths([]string{dir}).AutoLoad()
	require.NoError(t, err)
	assert.Equal(t, "found", config.Kernel.Name)
}

func TestLoadFailsValidation(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "kipc.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: loud\n"), 0644))

	_, err := NewLoader().Load(configFile)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLogLevel))
}

// TestWatcher tests configuration hot reload
func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "kipc.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0644))

	watcher, err := NewWatcher(configFile, NewLoader(), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, watcher.GetConfig().Log.Level)

	changed := make(chan *Config, 1)
	watcher.OnConfigChange(func(_, newConfig *Config) {
		select {
		case changed <- newConfig:
		default:
		}
	})

	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: debug\n"), 0644))

	select {
	case cfg := <-changed:
		assert.Equal(t, LogLevelDebug, cfg.Log.Level)
		assert.Equal(t, LogLevelDebug, watcher.GetConfig().Log.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcherReloadSurvivesPanickingCallback(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "kipc.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("kernel:\n  name: a\n"), 0644))

	watcher, err := NewWatcher(configFile, NewLoader())
	require.NoError(t, err)
	defer watcher.Stop()

	called := false
	watcher.OnConfigChange(func(_, _ *Config) { panic("boom") })
	watcher.OnConfigChange(func(_, _ *Config) { called = true })

	require.NoError(t, os.WriteFile(configFile, []byte("kernel:\n  name: b\n"), 0644))
	require.NoError(t, watcher.Reload())
	assert.True(t, called)
	assert.Equal(t, "b", watcher.GetConfig().Kernel.Name)
}
