// Package buffer provides the growable byte buffer underlying every
// muxaudio encoder and decoder: append-only writes, sequential consuming
// reads, and a logical reset to empty once fully drained.
package buffer

import "github.com/vampirefrog/muxaudio/codec"

// Buffer is a growable byte accumulator. Writes append at the end, reads
// consume from the front. Once every written byte has been read the buffer
// collapses back to its empty state without releasing storage, so a
// steady-state feed-then-drain loop never grows it unboundedly.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data    []byte
	readPos int
}

// New returns a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// grow ensures room for n more bytes, enlarging the storage by at least
// 1.5x when it has to reallocate.
func (b *Buffer) grow(n int) {
	needed := len(b.data) + n
	if needed <= cap(b.data) {
		return
	}
	newCap := cap(b.data) + cap(b.data)/2
	if newCap < needed {
		newCap = needed
	}
	data := make([]byte, len(b.data), newCap)
	copy(data, b.data)
	b.data = data
}

// Write appends p to the buffer.
func (b *Buffer) Write(p []byte) {
	if len(p) == 0 {
		return
	}
	b.grow(len(p))
	b.data = append(b.data, p...)
}

// Read copies up to len(p) unread bytes into p and consumes them. It
// returns the actual count, which may be less than len(p). When no unread
// bytes are available it returns codec.ErrNeedMoreData; callers must treat
// that as a retry-later condition, not a failure.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.readPos == len(b.data) {
		return 0, codec.ErrNeedMoreData
	}
	n := copy(p, b.data[b.readPos:])
	b.Discard(n)
	return n, nil
}

// Bytes returns the unread region without consuming it. The slice is only
// valid until the next Write or Discard.
func (b *Buffer) Bytes() []byte {
	return b.data[b.readPos:]
}

// Discard consumes n unread bytes. Draining the buffer completely resets
// the read position and size to zero.
func (b *Buffer) Discard(n int) {
	b.readPos += n
	if b.readPos >= len(b.data) {
		b.data = b.data[:0]
		b.readPos = 0
	}
}

// Available returns the number of unread bytes.
func (b *Buffer) Available() int {
	return len(b.data) - b.readPos
}

// Clear logically empties the buffer without releasing storage.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
	b.readPos = 0
}
