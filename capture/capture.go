// Package capture records and replays streams of kernel message envelopes.
//
// A capture is the plain concatenation of ipc.TotalSize-byte envelopes. There
// is no framing header: every record has the same size, so record i starts at
// byte i*ipc.TotalSize.
//
// Readers report kerror.NoMessageAvailable when there is nothing left to
// decode. This is the only place the message layer signals an empty source;
// the envelope encoding itself has no "empty" tag.
package capture

import (
	"time"

	"github.com/najoast/kipc/kerror"
	"go.uber.org/zap"
)

// ErrNoMessage is returned when a stream holds no further complete record.
var ErrNoMessage = kerror.New(kerror.NoMessageAvailable, "no message in capture")

type options struct {
	logger       *zap.Logger
	skipInvalid  bool
	pollInterval time.Duration
}

func defaultOptions() options {
	return options{
		logger:       zap.NewNop(),
		pollInterval: 250 * time.Millisecond,
	}
}

// Option configures a Reader or Follower.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSkipInvalid makes readers log and skip records that fail to decode
// instead of returning the error.
func WithSkipInvalid(skip bool) Option {
	return func(o *options) {
		o.skipInvalid = skip
	}
}

// WithPollInterval sets how often a Follower re-checks its file when no
// file system event arrives.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
