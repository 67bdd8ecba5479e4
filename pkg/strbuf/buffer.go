// Package strbuf provides a growable, NUL-terminated byte buffer for building
// textual data incrementally.
//
// A Buffer tracks its allocated capacity and used length explicitly. Every
// operation that changes the length leaves a NUL byte at offset Len(), which
// is not counted in the length, so CString() is always a valid C-style
// string. Growth doubles the capacity, keeping appends amortized O(1).
//
// A Buffer is not safe for concurrent use.
package strbuf

import (
	"bytes"
	"fmt"
	"math"

	"typelib-go/pkg/buffers"
)

// Buffer is a growable, NUL-terminated byte string. The zero value is an
// empty buffer drawing from buffers.Default.
type Buffer struct {
	// base is nil or exactly nalloc+1 bytes long; base[nused] is the NUL.
	base   []byte
	nalloc int
	nused  int

	// reserved is the room granted by the last Reserve and not yet
	// committed through Added.
	reserved int

	alloc buffers.Allocator
}

// New returns an empty buffer that allocates from alloc. A nil alloc means
// buffers.Default.
func New(alloc buffers.Allocator) *Buffer {
	return &Buffer{alloc: alloc}
}

func (b *Buffer) allocator() buffers.Allocator {
	if b.alloc == nil {
		return buffers.Default
	}
	return b.alloc
}

// Init puts b into the empty state without releasing anything it owned.
// Use Cleanup on a buffer that may hold an allocation.
func (b *Buffer) Init() {
	b.base = nil
	b.nalloc = 0
	b.nused = 0
	b.reserved = 0
}

// Cleanup frees the allocation, if any, and returns b to the empty state.
func (b *Buffer) Cleanup() {
	if b.base != nil {
		b.allocator().Free(b.base)
	}
	b.Init()
}

// Release is an alias for Cleanup.
func (b *Buffer) Release() { b.Cleanup() }

// Clear empties the buffer but keeps its allocation and any reservation.
func (b *Buffer) Clear() {
	b.nused = 0
	if b.base != nil {
		b.base[0] = 0
	}
}

// grow makes room for extra bytes past the used length. When a new block is
// needed the old one is returned rather than freed so callers can finish
// reading from it first. On failure b is unchanged.
func (b *Buffer) grow(extra int) (old []byte, err error) {
	if extra < 0 {
		return nil, fmt.Errorf("strbuf: reserve %d bytes: %w", extra, ErrInvalidArgument)
	}
	if extra > math.MaxInt-1-b.nused {
		return nil, fmt.Errorf("strbuf: reserve %d bytes past %d: %w", extra, b.nused, ErrOutOfMemory)
	}
	need := b.nused + extra
	if need <= b.nalloc {
		return nil, nil
	}

	newCap := need
	if b.nalloc <= (math.MaxInt-1)/2 && b.nalloc*2 > newCap {
		newCap = b.nalloc * 2
	}

	block, err := b.allocator().Alloc(newCap + 1)
	if err != nil {
		return nil, fmt.Errorf("strbuf: grow to %d bytes: %w", newCap, outOfMemory(err))
	}
	if b.base != nil {
		copy(block, b.base[:b.nused])
	}
	block[b.nused] = 0

	old = b.base
	b.base = block
	b.nalloc = newCap
	return old, nil
}

// Reserve guarantees at least extra bytes of room past the current length.
// The room is exposed by Tail and committed by Added. Growth may move the
// content, so slices previously returned by Tail or Bytes become stale.
func (b *Buffer) Reserve(extra int) error {
	old, err := b.grow(extra)
	if err != nil {
		return err
	}
	if old != nil {
		b.allocator().Free(old)
	}
	b.reserved = extra
	return nil
}

// Tail returns the region reserved by the last Reserve call and not yet
// committed. Write into it, then call Added with the number of bytes written.
// Call Tail again after each Added; the region starts at the new length.
func (b *Buffer) Tail() []byte {
	if b.base == nil {
		return nil
	}
	end := b.nused + b.reserved
	return b.base[b.nused:end:end]
}

// Added commits n bytes written into Tail. n may not exceed the room still
// reserved. The terminator is written at the new length, so any byte written
// past the n committed ones is overwritten.
func (b *Buffer) Added(n int) error {
	if n < 0 || n > b.reserved {
		return fmt.Errorf("strbuf: added %d bytes with %d reserved: %w", n, b.reserved, ErrInvalidArgument)
	}
	if n == 0 && b.base == nil {
		return nil
	}
	b.nused += n
	b.reserved -= n
	b.base[b.nused] = 0
	return nil
}

// Append copies data onto the end of the buffer. On failure the buffer is
// unchanged. data may alias the buffer's own content.
func (b *Buffer) Append(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	old, err := b.grow(len(data))
	if err != nil {
		return err
	}
	copy(b.base[b.nused:], data)
	if old != nil {
		b.allocator().Free(old)
	}
	b.commit(len(data))
	return nil
}

// AppendN appends the first size bytes of data. A negative size, or one
// larger than data, is rejected with ErrInvalidArgument.
func (b *Buffer) AppendN(data []byte, size int) error {
	if size < 0 || size > len(data) {
		return fmt.Errorf("strbuf: append %d of %d bytes: %w", size, len(data), ErrInvalidArgument)
	}
	return b.Append(data[:size])
}

// AppendZ appends z up to, not including, its first NUL byte.
func (b *Buffer) AppendZ(z []byte) error {
	if i := bytes.IndexByte(z, 0); i >= 0 {
		z = z[:i]
	}
	return b.Append(z)
}

// AppendString appends s.
func (b *Buffer) AppendString(s string) error {
	if len(s) == 0 {
		return nil
	}
	old, err := b.grow(len(s))
	if err != nil {
		return err
	}
	copy(b.base[b.nused:], s)
	if old != nil {
		b.allocator().Free(old)
	}
	b.commit(len(s))
	return nil
}

// commit advances the length after an internal append and drops any
// reservation the append consumed.
func (b *Buffer) commit(n int) {
	b.nused += n
	b.reserved = max(b.reserved-n, 0)
	b.base[b.nused] = 0
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (b *Buffer) WriteString(s string) (int, error) {
	if err := b.AppendString(s); err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	old, err := b.grow(1)
	if err != nil {
		return err
	}
	if old != nil {
		b.allocator().Free(old)
	}
	b.base[b.nused] = c
	b.commit(1)
	return nil
}

// EraseBegin removes n bytes from the start of the buffer. An n larger than
// the length empties the buffer. A pending reservation stays valid.
func (b *Buffer) EraseBegin(n int) error {
	if n < 0 {
		return fmt.Errorf("strbuf: erase %d leading bytes: %w", n, ErrInvalidArgument)
	}
	if b.base == nil || n == 0 {
		return nil
	}
	if n >= b.nused {
		b.nused = 0
	} else {
		copy(b.base, b.base[n:b.nused])
		b.nused -= n
	}
	b.base[b.nused] = 0
	return nil
}

// EraseEnd removes n bytes from the end of the buffer, or all of them if n
// exceeds the length.
func (b *Buffer) EraseEnd(n int) error {
	if n < 0 {
		return fmt.Errorf("strbuf: erase %d trailing bytes: %w", n, ErrInvalidArgument)
	}
	if b.base == nil || n == 0 {
		return nil
	}
	b.nused -= min(n, b.nused)
	b.base[b.nused] = 0
	return nil
}

// Transfer moves from's allocation into to, leaving from empty. to must be
// empty; otherwise nothing moves and ErrInvalidArgument is returned. to
// adopts from's allocator since the block has to be freed through it.
func Transfer(from, to *Buffer) error {
	if from == to {
		return nil
	}
	if to.base != nil {
		return fmt.Errorf("strbuf: transfer into a buffer holding %d bytes: %w", to.nalloc, ErrInvalidArgument)
	}
	to.base = from.base
	to.nalloc = from.nalloc
	to.nused = from.nused
	to.reserved = from.reserved
	to.alloc = from.alloc
	from.Init()
	return nil
}

// Bytes returns the content, excluding the terminator. The slice aliases the
// buffer and is valid until the next mutating call.
func (b *Buffer) Bytes() []byte {
	if b.base == nil {
		return nil
	}
	return b.base[:b.nused:b.nused]
}

// CString returns the content followed by its NUL terminator.
func (b *Buffer) CString() []byte {
	if b.base == nil {
		return []byte{0}
	}
	return b.base[:b.nused+1]
}

// String returns a copy of the content.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Len is the number of bytes in use, excluding the terminator.
func (b *Buffer) Len() int { return b.nused }

// Cap is the number of bytes allocated, excluding the terminator slot.
func (b *Buffer) Cap() int { return b.nalloc }

// Reserved is the room still granted by the last Reserve.
func (b *Buffer) Reserved() int { return b.reserved }
