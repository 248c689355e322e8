// Package pool provides a reusable growable byte buffer for
// codec.EncoderOutput's Serialize and sidecar framing, so each call reuses a
// working buffer instead of growing a fresh one.
package pool

import "sync"

// DefaultBufferSize is the initial capacity handed out by Get. Sized for a
// typical chunk (chunk_size=16..64 tokens, dozens of layers) so most calls
// never need to grow.
const DefaultBufferSize = 1 << 16 // 64 KiB

// ByteBuffer is a growable byte slice wrapper that can be recycled via Put.
type ByteBuffer struct {
	B []byte
}

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Write appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) Write(data []byte) {
	bb.B = append(bb.B, data...)
}

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

var bufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, DefaultBufferSize)}
	},
}

// Get returns a ByteBuffer from the pool, empty and ready to use.
func Get() *ByteBuffer {
	bb, _ := bufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// Put returns bb to the pool for reuse. Callers must not use bb after
// calling Put.
func Put(bb *ByteBuffer) {
	bufferPool.Put(bb)
}
