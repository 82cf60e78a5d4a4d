package mem

import "errors"

var (
	// ErrAllocFailed indicates the backing allocation could not be satisfied.
	ErrAllocFailed = errors.New("mem: allocation failed")

	// ErrUnknownBlock indicates a reallocation of a block this allocator never handed out.
	ErrUnknownBlock = errors.New("mem: block not tracked by this allocator")

	// ErrBadAlign indicates a requested alignment that is not a power of two.
	ErrBadAlign = errors.New("mem: alignment must be a positive power of two")

	// ErrBufferReleased indicates a copy of a shared buffer whose reference
	// count already reached zero.
	ErrBufferReleased = errors.New("mem: shared buffer already released")

	// ErrMemoryFault indicates an out-of-bounds access on the zero-copy
	// stream path. Copying reads signal bounds problems through the
	// end-of-stream flag instead.
	ErrMemoryFault = errors.New("mem: out-of-bounds buffer access")
)
