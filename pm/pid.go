// Package pm provides process identifiers as seen by the kernel message
// layer.
//
// A ProcessIdentifier packs the owning kernel instance in its high 8 bits and
// a per-kernel local number in the low 24 bits, so identifiers stay unique
// across the kernels of a multi-kernel system.
package pm

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/najoast/kipc/kerror"
)

// ProcessIdentifier identifies a process, or the kernel itself.
type ProcessIdentifier uint32

// ProcessIdentifierSize is the wire width of a ProcessIdentifier in bytes.
const ProcessIdentifierSize = 4

// Kernel is the reserved identifier for kernel-originated messages.
const Kernel ProcessIdentifier = 0

const (
	kernelShift = 24
	localMask   = 1<<kernelShift - 1

	// MaxLocal is the largest per-kernel local number.
	MaxLocal = localMask
)

// The wire width is a protocol constant; it must match the in-memory type.
var _ [ProcessIdentifierSize - unsafe.Sizeof(ProcessIdentifier(0))]struct{}
var _ [unsafe.Sizeof(ProcessIdentifier(0)) - ProcessIdentifierSize]struct{}

// NewProcessIdentifier builds an identifier from a kernel id and a local number.
func NewProcessIdentifier(kernelID uint8, local uint32) (ProcessIdentifier, error) {
	if local > MaxLocal {
		return 0, kerror.Errorf(kerror.InvalidArgument, "local process number %d out of range", local)
	}
	return ProcessIdentifier(uint32(kernelID)<<kernelShift | local), nil
}

// ToBytes encodes the identifier in native byte order.
func (p ProcessIdentifier) ToBytes() [ProcessIdentifierSize]byte {
	var b [ProcessIdentifierSize]byte
	binary.NativeEndian.PutUint32(b[:], uint32(p))
	return b
}

// ProcessIdentifierFromBytes decodes an identifier. Every bit pattern is a
// valid identifier, so this cannot fail.
func ProcessIdentifierFromBytes(b [ProcessIdentifierSize]byte) ProcessIdentifier {
	return ProcessIdentifier(binary.NativeEndian.Uint32(b[:]))
}

// ProcessIdentifierFromSlice decodes an identifier from a slice that must be
// exactly ProcessIdentifierSize bytes long.
func ProcessIdentifierFromSlice(b []byte) (ProcessIdentifier, error) {
	if len(b) != ProcessIdentifierSize {
		return 0, kerror.Errorf(kerror.InvalidArgument, "process identifier needs %d bytes, got %d", ProcessIdentifierSize, len(b))
	}
	return ProcessIdentifier(binary.NativeEndian.Uint32(b)), nil
}

// KernelID returns the kernel instance that owns the identifier.
func (p ProcessIdentifier) KernelID() uint8 {
	return uint8(p >> kernelShift)
}

// Local returns the per-kernel local number.
func (p ProcessIdentifier) Local() uint32 {
	return uint32(p) & localMask
}

// IsKernel reports whether p is the reserved kernel identifier.
func (p ProcessIdentifier) IsKernel() bool {
	return p == Kernel
}

// String returns a string representation of the identifier.
func (p ProcessIdentifier) String() string {
	if p.IsKernel() {
		return "kernel"
	}
	return fmt.Sprintf(":%02x:%06x", p.KernelID(), p.Local())
}
