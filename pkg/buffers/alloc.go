// Package buffers is the allocation boundary shared by the string buffer and
// the tokenizer. Every block handed out by an Allocator is owned by exactly
// one caller until it is given back through Free.
package buffers

import (
	"errors"
	"math"
	"sync"
)

var (
	// ErrOutOfMemory reports an allocation the allocator could not satisfy.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrInvalidArgument reports a size or argument outside its valid range.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Allocator hands out byte blocks. Alloc must return a block of exactly
// size bytes or ErrOutOfMemory; it must not panic on an unsatisfiable size.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// DefaultMaxAlloc is the ceiling used by the zero Heap.
const DefaultMaxAlloc = math.MaxInt32

// Heap allocates with make and leaves reclamation to the GC.
type Heap struct {
	// MaxAlloc caps a single allocation; 0 means DefaultMaxAlloc.
	MaxAlloc int
}

func (h Heap) Alloc(size int) ([]byte, error) {
	limit := h.MaxAlloc
	if limit <= 0 {
		limit = DefaultMaxAlloc
	}
	if size < 0 || size > limit {
		return nil, ErrOutOfMemory
	}
	return make([]byte, size), nil
}

func (Heap) Free([]byte) {}

// Default is the allocator used when none is configured.
var Default Allocator = Heap{}

// Limit wraps an Allocator with a budget of outstanding bytes. Blocks must be
// returned through the same Limit for the budget to be credited back.
type Limit struct {
	Next   Allocator
	Budget int

	mu    sync.Mutex
	inUse int
}

// NewLimit returns a Limit over next (Default when nil).
func NewLimit(next Allocator, budget int) *Limit {
	if next == nil {
		next = Default
	}
	return &Limit{Next: next, Budget: budget}
}

func (l *Limit) Alloc(size int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if size < 0 || size > l.Budget-l.inUse {
		return nil, ErrOutOfMemory
	}
	buf, err := l.Next.Alloc(size)
	if err != nil {
		return nil, err
	}
	l.inUse += size
	return buf, nil
}

func (l *Limit) Free(buf []byte) {
	if buf == nil {
		return
	}
	l.mu.Lock()
	l.inUse -= len(buf)
	if l.inUse < 0 {
		l.inUse = 0
	}
	l.mu.Unlock()
	l.Next.Free(buf)
}

// InUse reports the bytes currently handed out.
func (l *Limit) InUse() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inUse
}
