package capture

import (
	"fmt"
	"io"

	"github.com/najoast/kipc/ipc"
)

// Writer appends envelopes to a capture stream.
type Writer struct {
	w     io.Writer
	count int64
}

// NewWriter creates a new Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write appends one envelope.
func (w *Writer) Write(m ipc.Message) error {
	b := m.ToBytes()
	n, err := w.w.Write(b[:])
	if err != nil {
		return fmt.Errorf("capture: write record %d: %w", w.count, err)
	}
	if n != len(b) {
		return fmt.Errorf("capture: write record %d: %w", w.count, io.ErrShortWrite)
	}
	w.count++
	return nil
}

// Count returns the number of envelopes written.
func (w *Writer) Count() int64 {
	return w.count
}
