package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/najoast/kipc/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[config.LogLevel]zapcore.Level{
		config.LogLevelDebug: zapcore.DebugLevel,
		config.LogLevelInfo:  zapcore.InfoLevel,
		"WARN":               zapcore.WarnLevel,
		config.LogLevelError: zapcore.ErrorLevel,
		"":                   zapcore.InfoLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestNewWritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "kipc.log")

	logger, level, err := New(config.LogConfig{Level: config.LogLevelWarn, Format: "json", Output: out})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.String("kernel", "k0"))
	level.SetLevel(zapcore.DebugLevel)
	logger.Debug("now visible")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.NotContains(t, text, "hidden")
	assert.Contains(t, text, `"msg":"shown"`)
	assert.Contains(t, text, `"kernel":"k0"`)
	assert.Contains(t, text, "now visible")
}

func TestNewRejectsBadFormat(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: config.LogLevelInfo, Format: "xml"})
	assert.ErrorIs(t, err, config.ErrInvalidLogFormat)
}

func TestFollow(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	apply := Follow(level, zap.NewNop())

	oldConfig := config.DefaultConfig()
	newConfig := config.DefaultConfig()
	newConfig.Log.Level = config.LogLevelDebug

	apply(oldConfig, newConfig)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	bad := config.DefaultConfig()
	bad.Log.Level = "loud"
	apply(newConfig, bad)
	assert.Equal(t, zapcore.DebugLevel, level.Level())
}
