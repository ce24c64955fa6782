// Package kerror provides the error taxonomy shared by the kernel message
// packages.
//
// Every error carries a machine-checkable ErrorCode plus a human-readable
// reason. Callers branch on the code with errors.Is:
//
//	if errors.Is(err, kerror.NoMessageAvailable) {
//		// nothing to read yet
//	}
package kerror

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure.
type ErrorCode int

// Error codes. Values are stable; never renumber them.
const (
	// InvalidArgument means the caller passed a value outside the accepted domain
	InvalidArgument ErrorCode = iota + 1

	// InvalidMessage means a buffer did not decode to a well-formed message
	InvalidMessage

	// NoMessageAvailable means there was nothing to decode
	NoMessageAvailable

	// OperationNotSupported means the request is understood but not supported
	OperationNotSupported
)

var codeNames = map[ErrorCode]string{
	InvalidArgument:       "invalid argument",
	InvalidMessage:        "invalid message",
	NoMessageAvailable:    "no message available",
	OperationNotSupported: "operation not supported",
}

// String returns the human-readable name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("error code %d", int(c))
}

// Error makes ErrorCode usable as an errors.Is target.
func (c ErrorCode) Error() string {
	return c.String()
}

// Error is a coded error with a reason.
type Error struct {
	Code   ErrorCode
	Reason string
}

// New creates a new coded error.
func New(code ErrorCode, reason string) *Error {
	return &Error{Code: code, Reason: reason}
}

// Errorf creates a coded error with a formatted reason.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Reason
}

// Is reports whether target is this error's code. Two distinct *Error values
// only match by identity, so sentinels stay distinguishable.
func (e *Error) Is(target error) bool {
	if code, ok := target.(ErrorCode); ok {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Code, true
	}
	var code ErrorCode
	if errors.As(err, &code) {
		return code, true
	}
	return 0, false
}
