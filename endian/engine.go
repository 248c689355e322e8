// Package endian provides byte order utilities for binary encoding and
// decoding of the blob layout.
//
// It combines ByteOrder and AppendByteOrder from the standard library's
// encoding/binary into one EndianEngine interface so callers can both read
// and efficiently append without an extra copy through a temporary buffer.
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface. binary.LittleEndian and binary.BigEndian both
// satisfy it already.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LittleEndian is the fixed byte order for the blob layout (see §6.2: byte
// order is this module's one fixed choice, framing beyond that is left to
// the storage backend).
func LittleEndian() EndianEngine {
	return binary.LittleEndian
}
