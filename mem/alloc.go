package mem

import (
	"fmt"
	"sync"
	"unsafe"
)

// Allocator hands out byte blocks and tracks every block until Release.
//
// Reallocate must only be called with a block previously returned by the
// same allocator instance; an unknown block is a checked failure
// (ErrUnknownBlock), never a silent corruption. Release frees the whole
// registry and may be called any number of times.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Reallocate(block []byte, size int) ([]byte, error)
	Release()
}

// HeapAllocator is the plain allocator: blocks are ordinary heap
// allocations recorded in a registry slice. The zero value is not usable;
// construct with NewHeap or NewHeapLimit.
type HeapAllocator struct {
	mu     sync.Mutex
	blocks [][]byte
	limit  int
}

// NewHeap returns an unbounded heap allocator.
func NewHeap() *HeapAllocator {
	return &HeapAllocator{}
}

// NewHeapLimit returns a heap allocator that refuses any single request
// larger than limit bytes. Useful for making allocation failure a
// reachable, testable condition.
func NewHeapLimit(limit int) *HeapAllocator {
	return &HeapAllocator{limit: limit}
}

func (a *HeapAllocator) Allocate(size int) ([]byte, error) {
	if size < 0 || (a.limit > 0 && size > a.limit) {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocFailed, size)
	}
	b := make([]byte, size)
	a.mu.Lock()
	a.blocks = append(a.blocks, b)
	a.mu.Unlock()
	return b, nil
}

func (a *HeapAllocator) Reallocate(block []byte, size int) ([]byte, error) {
	if size < 0 || (a.limit > 0 && size > a.limit) {
		return nil, fmt.Errorf("%w: %d bytes", ErrAllocFailed, size)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, rec := range a.blocks {
		if !sameBlock(rec, block) {
			continue
		}
		grown := make([]byte, size)
		copy(grown, rec)
		a.blocks[i] = grown
		return grown, nil
	}
	return nil, fmt.Errorf("%w: reallocate of %d bytes", ErrUnknownBlock, len(block))
}

func (a *HeapAllocator) Release() {
	a.mu.Lock()
	a.blocks = nil
	a.mu.Unlock()
}

// Outstanding reports how many blocks are currently tracked. Zero after
// Release; leak assertions in tests hinge on this.
func (a *HeapAllocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.blocks)
}

// sameBlock reports whether two slices share a backing array origin.
// Registry identity is pointer identity of the first element, so callers
// must pass blocks exactly as the allocator returned them.
func sameBlock(a, b []byte) bool {
	return unsafe.SliceData(a) == unsafe.SliceData(b)
}
