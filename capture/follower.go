package capture

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/najoast/kipc/ipc"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Handler receives each envelope a Follower decodes, with the byte offset of
// its record. A non-nil error stops the Follower.
type Handler func(offset int64, m ipc.Message) error

// Follower decodes envelopes as they are appended to a capture file.
//
// A record is only decoded once all ipc.TotalSize bytes of it are on disk,
// so a writer in the middle of an append is never observed. Run must be
// called from a single goroutine; Close it after Run returns.
type Follower struct {
	path    string
	handler Handler
	opts    options

	file      *os.File
	fsWatcher *fsnotify.Watcher

	offset    atomic.Int64
	skipped   atomic.Int64
	closeOnce sync.Once
	closeErr  error
}

// NewFollower opens path and prepares to follow it from the start.
func NewFollower(path string, handler Handler, opts ...Option) (*Follower, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("capture: create file system watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		return nil, multierr.Combine(
			fmt.Errorf("capture: watch %s: %w", path, err),
			fsWatcher.Close(),
			file.Close(),
		)
	}

	return &Follower{
		path:      filepath.Clean(path),
		handler:   handler,
		opts:      applyOptions(opts),
		file:      file,
		fsWatcher: fsWatcher,
	}, nil
}

// Run delivers every complete record already in the file, then keeps
// delivering appended records until ctx is cancelled or an error stops it.
// Cancellation is not an error.
func (f *Follower) Run(ctx context.Context) error {
	if err := f.drain(); err != nil {
		return err
	}

	ticker := time.NewTicker(f.opts.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-f.fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				f.opts.logger.Warn("capture file went away", zap.String("file", f.path))
				continue
			}
			if err := f.drain(); err != nil {
				return err
			}

		case <-ticker.C:
			if err := f.drain(); err != nil {
				return err
			}

		case err, ok := <-f.fsWatcher.Errors:
			if !ok {
				return nil
			}
			f.opts.logger.Warn("capture watcher error", zap.Error(err))
		}
	}
}

// drain delivers every complete record past the current offset.
func (f *Follower) drain() error {
	info, err := f.file.Stat()
	if err != nil {
		return fmt.Errorf("capture: stat %s: %w", f.path, err)
	}

	offset := f.offset.Load()
	if info.Size() < offset {
		f.opts.logger.Warn("capture file truncated, restarting from the beginning",
			zap.String("file", f.path), zap.Int64("size", info.Size()), zap.Int64("offset", offset))
		offset = 0
		f.offset.Store(0)
	}

	var buf [ipc.TotalSize]byte
	for info.Size()-offset >= ipc.TotalSize {
		if _, err := f.file.ReadAt(buf[:], offset); err != nil && err != io.EOF {
			return fmt.Errorf("capture: read record at offset %d: %w", offset, err)
		}

		off := offset
		offset += ipc.TotalSize
		f.offset.Store(offset)

		m, err := ipc.FromBytes(buf)
		if err != nil {
			if !f.opts.skipInvalid {
				return fmt.Errorf("capture: record at offset %d: %w", off, err)
			}
			f.skipped.Add(1)
			f.opts.logger.Warn("skipping invalid record", zap.Int64("offset", off), zap.Error(err))
			continue
		}

		f.opts.logger.Debug("record", zap.Int64("offset", off), zap.Stringer("message", m))
		if err := f.handler(off, m); err != nil {
			return err
		}
	}
	return nil
}

// Offset returns the offset of the next record to decode.
func (f *Follower) Offset() int64 {
	return f.offset.Load()
}

// Skipped returns the number of invalid records skipped.
func (f *Follower) Skipped() int64 {
	return f.skipped.Load()
}

// Close releases the file and the watcher.
func (f *Follower) Close() error {
	f.closeOnce.Do(func() {
		f.closeErr = multierr.Append(f.fsWatcher.Close(), f.file.Close())
	})
	return f.closeErr
}
