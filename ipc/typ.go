package ipc

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unsafe"

	"github.com/najoast/kipc/kerror"
)

// MessageType tells what a message is about.
//
// Codes are a protocol contract shared with remote kernels: never renumber or
// reuse them.
type MessageType uint32

const (
	// Interrupt carries information about an interrupt that occurred
	Interrupt MessageType = 0

	// Exception carries information about an exception that occurred
	Exception MessageType = 1

	// Ipc carries data sent by a process to another
	Ipc MessageType = 2

	// SchedulingEvent carries information about a scheduling event
	SchedulingEvent MessageType = 3

	// Ikc carries data sent from one kernel to another
	Ikc MessageType = 4
)

// MessageTypeSize is the wire width of a MessageType in bytes.
const MessageTypeSize = 4

var _ [MessageTypeSize - unsafe.Sizeof(MessageType(0))]struct{}
var _ [unsafe.Sizeof(MessageType(0)) - MessageTypeSize]struct{}

// ErrInvalidMessageType is returned when four bytes do not hold a known code.
var ErrInvalidMessageType = kerror.New(kerror.InvalidMessage, "invalid message type")

// MessageTypes lists every variant in code order.
var MessageTypes = []MessageType{Interrupt, Exception, Ipc, SchedulingEvent, Ikc}

// IsValid reports whether t is one of the defined variants.
func (t MessageType) IsValid() bool {
	return t <= Ikc
}

// String returns the diagnostic name of the message type.
func (t MessageType) String() string {
	switch t {
	case Interrupt:
		return "interrupt"
	case Exception:
		return "exception"
	case Ipc:
		return "inter-process communication"
	case SchedulingEvent:
		return "scheduling event"
	case Ikc:
		return "inter-kernel communication"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// ToBytes encodes the message type in native byte order.
func (t MessageType) ToBytes() [MessageTypeSize]byte {
	var b [MessageTypeSize]byte
	binary.NativeEndian.PutUint32(b[:], uint32(t))
	return b
}

// MessageTypeFromBytes decodes a message type. It fails with
// ErrInvalidMessageType for any value that is not a defined code.
func MessageTypeFromBytes(b [MessageTypeSize]byte) (MessageType, error) {
	switch code := MessageType(binary.NativeEndian.Uint32(b[:])); code {
	case Interrupt, Exception, Ipc, SchedulingEvent, Ikc:
		return code, nil
	default:
		return 0, ErrInvalidMessageType
	}
}

var shortNames = map[string]MessageType{
	"interrupt": Interrupt,
	"irq":       Interrupt,
	"exception": Exception,
	"exc":       Exception,
	"ipc":       Ipc,
	"sched":     SchedulingEvent,
	"ikc":       Ikc,
}

// ParseMessageType parses a diagnostic or short name (case-insensitive).
func ParseMessageType(s string) (MessageType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if t, ok := shortNames[name]; ok {
		return t, nil
	}
	for _, t := range MessageTypes {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, kerror.Errorf(kerror.InvalidArgument, "unknown message type %q", s)
}
