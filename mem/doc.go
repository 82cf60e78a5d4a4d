// Package mem provides the buffer and allocator layer the event substrate
// is built on: registry-tracked allocators, move-only and reference-counted
// byte buffers, and a cursor-based binary stream over them.
//
// # Allocators
//
// An Allocator hands out byte blocks and remembers every block it has
// handed out. Release drops the whole registry at once; a buffer that owns
// an allocator frees everything it ever allocated in one call. Two
// implementations exist:
//
//   - HeapAllocator: plain blocks, reallocation locates the original block
//     in the registry and preserves contents.
//   - AlignedAllocator: every returned block starts at a caller-chosen
//     alignment boundary; the registry keeps the padded base allocation so
//     reallocation and release always operate on the true backing array.
//
// Both guard their registry with a mutex and are safe for concurrent
// Allocate/Reallocate/Release.
//
// # Buffers
//
// UniqueBuffer is the sole owner of its allocator. It cannot be copied,
// only handed over, and Release is idempotent.
//
// SharedBuffer is reference counted. Copy creates a new reference; the
// drop of the last reference (count 1 -> 0) releases the allocator exactly
// once. Copying a buffer whose count already reached zero fails with
// ErrBufferReleased rather than resurrecting freed memory. The count mutex
// and the data RWMutex are independent: refcount bookkeeping never waits
// on data readers and vice versa.
//
// # Stream
//
// Stream is a sequential cursor over a Buffer. There are two failure
// modes, kept deliberately distinct: copying reads (GetI32, GetBytes,
// GetView) signal bounds problems softly through the end-of-stream flag
// and zero/empty results, while zero-copy reads (GetAsI32, GetAsI64)
// fail hard with ErrMemoryFault. The stream carries no type tags: the
// wire layout is exactly the ordered sequence of Append calls, and the
// reader must mirror it field for field.
package mem
