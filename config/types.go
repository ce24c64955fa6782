// Package config provides configuration management for kipc tools
package config

import (
	"time"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	return string(l)
}

// IsValid checks if the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// Config represents the complete kipc configuration
type Config struct {
	// Kernel instance configuration
	Kernel KernelConfig `yaml:"kernel" json:"kernel"`

	// Logging configuration
	Log LogConfig `yaml:"log" json:"log"`

	// Capture stream configuration
	Capture CaptureConfig `yaml:"capture" json:"capture"`
}

// KernelConfig identifies the local kernel instance
type KernelConfig struct {
	// Kernel instance id, packed into the high bits of process identifiers
	ID uint8 `yaml:"id" json:"id"`

	// Human-readable kernel name
	Name string `yaml:"name" json:"name"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// Log level
	Level LogLevel `yaml:"level" json:"level"`

	// Log format (json, text)
	Format string `yaml:"format" json:"format"`

	// Output destination (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`
}

// CaptureConfig contains capture stream settings
type CaptureConfig struct {
	// Default capture file
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// How often a follower re-checks the file when no events arrive
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`

	// Skip records that fail to decode instead of stopping
	SkipInvalid bool `yaml:"skip_invalid" json:"skip_invalid"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Kernel: KernelConfig{
			ID:   0,
			Name: "kernel0",
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: "text",
			Output: "stderr",
		},
		Capture: CaptureConfig{
			PollInterval: 250 * time.Millisecond,
			SkipInvalid:  false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Kernel.Name == "" {
		return ErrInvalidKernelName
	}

	if !c.Log.Level.IsValid() {
		return ErrInvalidLogLevel
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}

	if c.Capture.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	return nil
}

// IsDebugEnabled returns true if debug logging is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.Log.Level == LogLevelDebug
}
