package mem

import (
	"fmt"
	"sync"
	"unsafe"
)

// alignedBlock records one aligned allocation: the raw base allocation,
// the padding skipped to reach the aligned start, and the view handed to
// the caller. Keeping the base around is what lets Reallocate and Release
// operate on the true backing array.
type alignedBlock struct {
	base []byte
	off  int
	data []byte
}

// AlignedAllocator pads every allocation so the returned block starts on
// an align-byte boundary. The padding is recomputed on every reallocation
// because the base address may move.
type AlignedAllocator struct {
	mu     sync.Mutex
	blocks []alignedBlock
	align  int
	limit  int
}

// NewAligned returns an allocator whose blocks all start at addresses
// divisible by align. align must be a positive power of two.
func NewAligned(align int) (*AlignedAllocator, error) {
	if align <= 0 || align&(align-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadAlign, align)
	}
	return &AlignedAllocator{align: align}, nil
}

// SetLimit caps the size of any single request, making allocation failure
// reachable. Zero means unbounded.
func (a *AlignedAllocator) SetLimit(limit int) {
	a.mu.Lock()
	a.limit = limit
	a.mu.Unlock()
}

func (a *AlignedAllocator) Allocate(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	blk, err := a.carve(size)
	if err != nil {
		return nil, err
	}
	a.blocks = append(a.blocks, blk)
	return blk.data, nil
}

func (a *AlignedAllocator) Reallocate(block []byte, size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, rec := range a.blocks {
		if unsafe.SliceData(rec.data) != unsafe.SliceData(block) {
			continue
		}
		grown, err := a.carve(size)
		if err != nil {
			return nil, err
		}
		copy(grown.data, rec.data)
		a.blocks[i] = grown
		return grown.data, nil
	}
	return nil, fmt.Errorf("%w: reallocate of %d bytes", ErrUnknownBlock, len(block))
}

func (a *AlignedAllocator) Release() {
	a.mu.Lock()
	a.blocks = nil
	a.mu.Unlock()
}

// Outstanding reports how many blocks are currently tracked.
func (a *AlignedAllocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.blocks)
}

// carve allocates size+align raw bytes and sub-slices at the first
// aligned address. Caller holds a.mu.
func (a *AlignedAllocator) carve(size int) (alignedBlock, error) {
	if size < 0 || (a.limit > 0 && size > a.limit) {
		return alignedBlock{}, fmt.Errorf("%w: %d bytes", ErrAllocFailed, size)
	}
	base := make([]byte, size+a.align)
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(base)))
	off := 0
	if rem := int(addr) & (a.align - 1); rem != 0 {
		off = a.align - rem
	}
	return alignedBlock{
		base: base,
		off:  off,
		data: base[off : off+size : off+size],
	}, nil
}
