package ipc

import (
	"unsafe"

	"github.com/najoast/kipc/pm"
	"golang.org/x/sys/cpu"
)

// Envelope sizes in bytes.
const (
	// TotalSize is the fixed size of every message
	TotalSize = 64

	// HeaderSize covers the message type and both endpoints
	HeaderSize = 2*pm.ProcessIdentifierSize + MessageTypeSize

	// PayloadSize is what remains for the payload
	PayloadSize = TotalSize - HeaderSize
)

// Field offsets within an encoded message.
const (
	typeOffset        = 0
	sourceOffset      = typeOffset + MessageTypeSize
	destinationOffset = sourceOffset + pm.ProcessIdentifierSize
	payloadOffset     = destinationOffset + pm.ProcessIdentifierSize
)

// DefaultType is the message type of Default().
const DefaultType = Ipc

// Build-time layout checks. A mismatch makes one of the array lengths
// negative, which does not compile.
var (
	_ [HeaderSize + PayloadSize - TotalSize]struct{}
	_ [TotalSize - HeaderSize - PayloadSize]struct{}

	_ [payloadOffset - HeaderSize]struct{}
	_ [HeaderSize - payloadOffset]struct{}

	_ [unsafe.Sizeof(Message{}) - TotalSize]struct{}
	_ [TotalSize - unsafe.Sizeof(Message{})]struct{}
)

// HostByteOrder names the byte order used on the wire by this host.
func HostByteOrder() string {
	if cpu.IsBigEndian {
		return "big-endian"
	}
	return "little-endian"
}
