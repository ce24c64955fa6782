// Package ipc defines the fixed-size message envelope the kernel uses for
// interrupts, exceptions, scheduling events, inter-process communication and
// inter-kernel communication.
//
// Every envelope is exactly TotalSize bytes on the wire, native byte order:
//
//	offset 0       message type  (4 bytes)
//	offset 4       source        (pm.ProcessIdentifierSize bytes)
//	offset 4+W     destination   (pm.ProcessIdentifierSize bytes)
//	offset 4+2W    payload       (PayloadSize bytes)
//
// The layout is checked at build time. Encoding never fails; decoding
// validates the message type before touching anything else and returns a
// kerror value instead of panicking on malformed input.
//
// The package holds no state and never logs, so envelopes may be encoded and
// decoded concurrently from any number of goroutines.
package ipc
