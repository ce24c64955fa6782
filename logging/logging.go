// Package logging builds zap loggers from kipc configuration.
package logging

import (
	"fmt"
	"strings"

	"github.com/najoast/kipc/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a configured level to a zap level.
func ParseLevel(level config.LogLevel) (zapcore.Level, error) {
	switch config.LogLevel(strings.ToLower(string(level))) {
	case config.LogLevelDebug:
		return zapcore.DebugLevel, nil
	case config.LogLevelInfo, "":
		return zapcore.InfoLevel, nil
	case config.LogLevelWarn:
		return zapcore.WarnLevel, nil
	case config.LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", config.ErrInvalidLogLevel, level)
	}
}

// New builds a logger from cfg. The returned level can be changed at
// runtime, e.g. when the configuration file is reloaded.
func New(cfg config.LogConfig) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	level := zap.NewAtomicLevelAt(lvl)

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Sampling = nil
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch cfg.Format {
	case "json":
		zc.Encoding = "json"
	case "text", "":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("%w: %q", config.ErrInvalidLogFormat, cfg.Format)
	}

	output := cfg.Output
	if output == "" {
		output = "stderr"
	}
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, level, nil
}

// Follow returns a config change callback that applies new log levels to level.
func Follow(level zap.AtomicLevel, logger *zap.Logger) config.ConfigChangeCallback {
	return func(oldConfig, newConfig *config.Config) {
		if oldConfig != nil && oldConfig.Log.Level == newConfig.Log.Level {
			return
		}
		lvl, err := ParseLevel(newConfig.Log.Level)
		if err != nil {
			logger.Warn("ignoring log level change", zap.Error(err))
			return
		}
		level.SetLevel(lvl)
		logger.Info("log level changed", zap.Stringer("level", lvl))
	}
}
