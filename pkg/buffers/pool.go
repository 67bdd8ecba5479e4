package buffers

import (
	"math/bits"
	"sync"
)

const (
	// MinPooled is the smallest size class kept by a Pool.
	MinPooled = 64

	// MaxPooled is the largest size class kept by a Pool. Bigger requests
	// go straight to the heap and are not recycled.
	MaxPooled = 64 * 1024
)

// Pool is an Allocator that recycles blocks in power-of-two size classes
// to reduce GC pressure on append-heavy workloads. It is safe for
// concurrent use; the buffers drawing from it are not.
type Pool struct {
	classes []sync.Pool
	heap    Heap
}

// NewPool creates a pool with size classes from MinPooled to MaxPooled.
func NewPool() *Pool {
	n := classIndex(MaxPooled) + 1
	p := &Pool{classes: make([]sync.Pool, n)}
	for i := range p.classes {
		size := MinPooled << i
		p.classes[i].New = func() interface{} {
			buf := make([]byte, size)
			return &buf
		}
	}
	return p
}

// classIndex returns the index of the smallest class that fits size.
func classIndex(size int) int {
	if size <= MinPooled {
		return 0
	}
	return bits.Len(uint(size-1)) - bits.Len(uint(MinPooled-1))
}

// Alloc returns a block of exactly size bytes. The block is not zeroed.
func (p *Pool) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrOutOfMemory
	}
	if size > MaxPooled {
		return p.heap.Alloc(size)
	}
	buffer := *(p.classes[classIndex(size)].Get().(*[]byte))
	return buffer[:size], nil
}

// Free hands a block back to its size class. Blocks that did not come
// from a pool class are dropped.
func (p *Pool) Free(buffer []byte) {
	c := cap(buffer)
	if c < MinPooled || c > MaxPooled || c&(c-1) != 0 {
		return // not one of ours
	}
	buffer = buffer[:c]
	p.classes[classIndex(c)].Put(&buffer)
}

// SharedPool is a process-wide pool for callers that don't need isolation.
var SharedPool = NewPool()
