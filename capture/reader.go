package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/najoast/kipc/ipc"
	"github.com/najoast/kipc/kerror"
	"go.uber.org/zap"
)

// Reader decodes envelopes from a capture stream.
type Reader struct {
	r       io.Reader
	opts    options
	offset  int64
	skipped int64
}

// NewReader creates a new Reader.
func NewReader(r io.Reader, opts ...Option) *Reader {
	return &Reader{r: r, opts: applyOptions(opts)}
}

// Next decodes the next envelope. It returns ErrNoMessage at the clean end
// of the stream and a kerror.InvalidMessage error for a truncated trailing
// record.
func (r *Reader) Next() (ipc.Message, error) {
	for {
		var buf [ipc.TotalSize]byte
		n, err := io.ReadFull(r.r, buf[:])
		switch {
		case errors.Is(err, io.EOF):
			return ipc.Message{}, ErrNoMessage
		case errors.Is(err, io.ErrUnexpectedEOF):
			off := r.offset
			r.offset += int64(n)
			return ipc.Message{}, kerror.Errorf(kerror.InvalidMessage,
				"truncated record at offset %d: got %d of %d bytes", off, n, ipc.TotalSize)
		case err != nil:
			return ipc.Message{}, fmt.Errorf("capture: read record at offset %d: %w", r.offset, err)
		}

		off := r.offset
		r.offset += ipc.TotalSize

		m, err := ipc.FromBytes(buf)
		if err == nil {
			return m, nil
		}
		if !r.opts.skipInvalid {
			return ipc.Message{}, fmt.Errorf("capture: record at offset %d: %w", off, err)
		}
		r.skipped++
		r.opts.logger.Warn("skipping invalid record", zap.Int64("offset", off), zap.Error(err))
	}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Skipped returns the number of invalid records skipped.
func (r *Reader) Skipped() int64 {
	return r.skipped
}

// ReadAll decodes every envelope in r.
func ReadAll(r io.Reader, opts ...Option) ([]ipc.Message, error) {
	reader := NewReader(r, opts...)
	var msgs []ipc.Message
	for {
		m, err := reader.Next()
		if errors.Is(err, ErrNoMessage) {
			return msgs, nil
		}
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, m)
	}
}
