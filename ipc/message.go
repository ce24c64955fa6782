package ipc

import (
	"bytes"
	"fmt"

	"github.com/najoast/kipc/kerror"
	"github.com/najoast/kipc/pm"
)

// Message is the kernel message envelope. It is a plain value with no
// pointers and may be copied into shared buffers as is.
type Message struct {
	// Type indicates the message category
	Type MessageType

	// Source is the sender, pm.Kernel for kernel-originated events
	Source pm.ProcessIdentifier

	// Destination is the intended recipient
	Destination pm.ProcessIdentifier

	// Payload is owned by the (Source, Type) pair; the envelope never inspects it
	Payload [PayloadSize]byte
}

// Payload is the fixed-size payload buffer of a Message.
type Payload = [PayloadSize]byte

var (
	// ErrShortBuffer is returned when a destination buffer cannot hold an envelope
	ErrShortBuffer = kerror.New(kerror.InvalidArgument, "buffer shorter than message size")
)

// New creates a new message.
func New(source, destination pm.ProcessIdentifier, typ MessageType, payload Payload) Message {
	return Message{
		Type:        typ,
		Source:      source,
		Destination: destination,
		Payload:     payload,
	}
}

// Default returns the envelope used to initialize slots before any message
// arrives: kernel to kernel, DefaultType, zero payload.
//
// It differs from the zero Message, whose type is Interrupt.
func Default() Message {
	return Message{
		Type:        DefaultType,
		Source:      pm.Kernel,
		Destination: pm.Kernel,
	}
}

// ToBytes encodes the message: type, source, destination, payload, with no
// padding in between.
func (m Message) ToBytes() [TotalSize]byte {
	var b [TotalSize]byte
	m.put(b[:])
	return b
}

// MarshalTo encodes the message into dst and returns the number of bytes
// written.
func (m *Message) MarshalTo(dst []byte) (int, error) {
	if len(dst) < TotalSize {
		return 0, ErrShortBuffer
	}
	m.put(dst[:TotalSize])
	return TotalSize, nil
}

func (m *Message) put(b []byte) {
	typ := m.Type.ToBytes()
	src := m.Source.ToBytes()
	dst := m.Destination.ToBytes()

	copy(b[typeOffset:sourceOffset], typ[:])
	copy(b[sourceOffset:destinationOffset], src[:])
	copy(b[destinationOffset:payloadOffset], dst[:])
	copy(b[payloadOffset:], m.Payload[:])
}

// FromBytes decodes a message. The type is decoded first, so garbage is
// rejected before the endpoints are read. On failure the zero Message is
// returned.
func FromBytes(b [TotalSize]byte) (Message, error) {
	typ, err := MessageTypeFromBytes([MessageTypeSize]byte(b[typeOffset:sourceOffset]))
	if err != nil {
		return Message{}, err
	}

	source, err := pm.ProcessIdentifierFromSlice(b[sourceOffset:destinationOffset])
	if err != nil {
		return Message{}, kerror.Errorf(kerror.InvalidMessage, "invalid source: %v", err)
	}

	destination, err := pm.ProcessIdentifierFromSlice(b[destinationOffset:payloadOffset])
	if err != nil {
		return Message{}, kerror.Errorf(kerror.InvalidMessage, "invalid destination: %v", err)
	}

	m := Message{
		Type:        typ,
		Source:      source,
		Destination: destination,
	}
	copy(m.Payload[:], b[payloadOffset:])
	return m, nil
}

// Parse decodes a message from a slice, for transports that hand out
// slices instead of fixed-size arrays. The slice must be exactly TotalSize
// bytes long.
func Parse(b []byte) (Message, error) {
	if len(b) != TotalSize {
		return Message{}, kerror.Errorf(kerror.InvalidMessage, "message must be %d bytes, got %d", TotalSize, len(b))
	}
	return FromBytes([TotalSize]byte(b))
}

// Equal reports whether two messages match field by field.
func (m Message) Equal(other Message) bool {
	return m.Type == other.Type &&
		m.Source == other.Source &&
		m.Destination == other.Destination &&
		bytes.Equal(m.Payload[:], other.Payload[:])
}

// String returns a short diagnostic representation; the payload is not
// printed.
func (m Message) String() string {
	return fmt.Sprintf("%s %s -> %s", m.Type, m.Source, m.Destination)
}
