package mem

import "sync"

// sharedMeta is the bookkeeping block behind every reference to one
// shared buffer. The count mutex and the data RWMutex are independent:
// refcount traffic never blocks data readers and vice versa.
type sharedMeta struct {
	data     []byte
	alloc    Allocator
	capacity int

	mu   sync.Mutex // guards refs only
	refs int

	rw sync.RWMutex // guards data content
}

// SharedBuffer is a reference-counted byte buffer. Each SharedBuffer
// value is one reference; Copy mints another, Release drops one. The
// reference whose drop takes the count from 1 to 0 releases the backing
// allocator, exactly once, and frees everything it tracked.
type SharedBuffer struct {
	meta *sharedMeta
}

// NewShared allocates a capacity-byte shared buffer with a reference
// count of one. A nil alloc gets a fresh HeapAllocator. The buffer owns
// the allocator: the last Release frees all of its tracked blocks, data
// first, then drops the allocator handle itself.
func NewShared(capacity int, alloc Allocator) (*SharedBuffer, error) {
	if alloc == nil {
		alloc = NewHeap()
	}
	data, err := alloc.Allocate(capacity)
	if err != nil {
		return nil, err
	}
	m := &sharedMeta{
		data:     data,
		alloc:    alloc,
		capacity: capacity,
		refs:     1,
	}
	return &SharedBuffer{meta: m}, nil
}

// Copy mints an independent reference to the same storage. Copying a
// buffer whose count has already reached zero fails with
// ErrBufferReleased: a torn-down buffer cannot be resurrected.
func (b *SharedBuffer) Copy() (*SharedBuffer, error) {
	m := b.meta
	if m == nil {
		return nil, ErrBufferReleased
	}
	m.mu.Lock()
	if m.refs == 0 {
		m.mu.Unlock()
		return nil, ErrBufferReleased
	}
	m.refs++
	m.mu.Unlock()
	return &SharedBuffer{meta: m}, nil
}

// Release drops this reference. The transition from 1 to 0 happens under
// the count mutex, so concurrent drops serialize and the allocator is
// released exactly once. Releasing an already-released reference is a
// no-op.
func (b *SharedBuffer) Release() {
	m := b.meta
	if m == nil {
		return
	}
	b.meta = nil
	m.mu.Lock()
	if m.refs == 0 {
		m.mu.Unlock()
		return
	}
	m.refs--
	last := m.refs == 0
	m.mu.Unlock()
	if last {
		// Teardown order matters: free the tracked data through the
		// allocator, then drop the allocator handle.
		m.alloc.Release()
		m.alloc = nil
		m.data = nil
	}
}

// Refs reports the current reference count. Zero both for a fully
// released buffer and for a reference that was individually released.
func (b *SharedBuffer) Refs() int {
	m := b.meta
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refs
}

func (b *SharedBuffer) Bytes() []byte {
	return b.meta.data
}

func (b *SharedBuffer) Capacity() int {
	return b.meta.capacity
}

func (b *SharedBuffer) RWLock() *sync.RWMutex {
	return &b.meta.rw
}

// Expand grows the storage for every reference at once. It takes the
// exclusive data lock first, then the count mutex, mirroring the lock
// order the original teardown uses.
func (b *SharedBuffer) Expand(capacity int) error {
	m := b.meta
	m.rw.Lock()
	defer m.rw.Unlock()
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := m.alloc.Reallocate(m.data, capacity)
	if err != nil {
		return err
	}
	m.data = data
	m.capacity = capacity
	return nil
}
