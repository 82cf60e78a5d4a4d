package mem

import "sync"

// Buffer is the surface a Stream cursors over: a capacity-bounded byte
// region with a read-write lock guarding content access.
type Buffer interface {
	// Bytes returns the backing block. Callers touching it directly must
	// hold RWLock themselves; the Stream does this for them.
	Bytes() []byte
	Capacity() int
	RWLock() *sync.RWMutex
	Expand(capacity int) error
}

// UniqueBuffer is the sole owner of one allocator instance. It is meant
// to be handed over, never duplicated; there is no Copy.
type UniqueBuffer struct {
	alloc    Allocator
	data     []byte
	capacity int
	rw       sync.RWMutex
	released bool
}

// NewUnique allocates a capacity-byte buffer from alloc. A nil alloc gets
// a fresh HeapAllocator, which the buffer then owns either way: Release
// frees everything the allocator tracks.
func NewUnique(capacity int, alloc Allocator) (*UniqueBuffer, error) {
	if alloc == nil {
		alloc = NewHeap()
	}
	data, err := alloc.Allocate(capacity)
	if err != nil {
		return nil, err
	}
	return &UniqueBuffer{alloc: alloc, data: data, capacity: capacity}, nil
}

func (b *UniqueBuffer) Bytes() []byte         { return b.data }
func (b *UniqueBuffer) Capacity() int         { return b.capacity }
func (b *UniqueBuffer) RWLock() *sync.RWMutex { return &b.rw }

// Expand reallocates the block in place, preserving contents up to the
// smaller of the old and new capacities.
func (b *UniqueBuffer) Expand(capacity int) error {
	data, err := b.alloc.Reallocate(b.data, capacity)
	if err != nil {
		return err
	}
	b.data = data
	b.capacity = capacity
	return nil
}

// Release frees the owned allocator. Idempotent: the second and later
// calls are no-ops, so an explicit Release followed by a deferred one
// never double-frees.
func (b *UniqueBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.alloc.Release()
	b.data = nil
	b.capacity = 0
}
