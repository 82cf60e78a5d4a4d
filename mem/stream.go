package mem

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/mvoss/evkit/internal/buf"
)

// lenPrefixSize is the width of the length field written ahead of every
// length-prefixed string. Fixed at 8 bytes little-endian so encodings
// are identical across processes and platforms.
const lenPrefixSize = 8

// Stream is a sequential cursor over one Buffer. It does not own the
// buffer and only touches its contents through the buffer's lock. A
// stream is bound to its buffer for life; it is not safe for concurrent
// use by multiple goroutines (the buffer is, the cursor is not).
type Stream struct {
	buf        Buffer
	rw         *sync.RWMutex
	pos        int
	eof        bool
	autoExpand bool
}

// NewStream binds a cursor to b, starting at position zero.
func NewStream(b Buffer) *Stream {
	return &Stream{buf: b, rw: b.RWLock()}
}

// Reference returns the buffer's bytes at [off, off+n) without copying,
// or nil when the range is out of bounds.
func (s *Stream) Reference(off, n int) []byte {
	s.rw.RLock()
	defer s.rw.RUnlock()
	p, ok := buf.Slice(s.buf.Bytes(), off, n)
	if !ok {
		return nil
	}
	return p
}

// ReadAt copies len(dst) bytes out of the buffer at off. Returns false,
// copying nothing, when the range is out of bounds.
func (s *Stream) ReadAt(dst []byte, off int) bool {
	s.rw.RLock()
	defer s.rw.RUnlock()
	src, ok := buf.Slice(s.buf.Bytes(), off, len(dst))
	if !ok {
		return false
	}
	copy(dst, src)
	return true
}

// WriteAt copies src into the buffer at off. Returns false, writing
// nothing, when the range is out of bounds.
func (s *Stream) WriteAt(src []byte, off int) bool {
	s.rw.Lock()
	defer s.rw.Unlock()
	dst, ok := buf.Slice(s.buf.Bytes(), off, len(src))
	if !ok {
		return false
	}
	copy(dst, src)
	return true
}

// getFixed advances the cursor by len(dst) and copies that many bytes
// from the old position. The cursor advances even when the read fails;
// the failure surfaces only through the end-of-stream flag.
func (s *Stream) getFixed(dst []byte) bool {
	step := len(dst)
	curr := s.pos + step
	if curr == s.buf.Capacity() {
		s.eof = true
	}
	s.pos = curr
	if !s.ReadAt(dst, curr-step) {
		s.eof = true
		return false
	}
	return true
}

// GetU8 reads one byte at the cursor. Out of bounds yields zero and sets
// end-of-stream.
func (s *Stream) GetU8() byte {
	var b [1]byte
	if !s.getFixed(b[:]) {
		return 0
	}
	return b[0]
}

// GetI32 reads a little-endian int32 at the cursor. Out of bounds yields
// zero and sets end-of-stream.
func (s *Stream) GetI32() int32 {
	var b [4]byte
	if !s.getFixed(b[:]) {
		return 0
	}
	return buf.I32LE(b[:])
}

// GetI64 reads a little-endian int64 at the cursor. Out of bounds yields
// zero and sets end-of-stream.
func (s *Stream) GetI64() int64 {
	var b [8]byte
	if !s.getFixed(b[:]) {
		return 0
	}
	return buf.I64LE(b[:])
}

// GetU64 reads a little-endian uint64 at the cursor. Out of bounds
// yields zero and sets end-of-stream.
func (s *Stream) GetU64() uint64 {
	var b [8]byte
	if !s.getFixed(b[:]) {
		return 0
	}
	return buf.U64LE(b[:])
}

// GetBytes copies up to len(dst) bytes at the cursor. Returns -1 when
// the stream is already at end-of-stream. When the run reaches or passes
// capacity it copies only the remaining bytes, sets end-of-stream, and
// returns the count actually copied.
func (s *Stream) GetBytes(dst []byte) int {
	if s.eof {
		return -1
	}
	size := len(dst)
	curr := s.pos + size
	capacity := s.buf.Capacity()
	if curr >= capacity {
		s.eof = true
		remain := capacity - s.pos
		if remain > 0 {
			s.ReadAt(dst[:remain], s.pos)
		}
		s.pos = capacity
		return remain
	}
	s.ReadAt(dst, s.pos)
	s.pos = curr
	return size
}

// GetCString reads bytes from the cursor up to, and then skips, the
// first zero byte. This is the bare text path: it assumes the buffer
// holds a NUL-terminated run at the cursor and is not interchangeable
// with the length-prefixed GetView.
func (s *Stream) GetCString() string {
	capacity := s.buf.Capacity()

	s.rw.RLock()
	data := s.buf.Bytes()
	length := 0
	terminated := false
	if s.pos < len(data) {
		if i := bytes.IndexByte(data[s.pos:], 0); i >= 0 {
			length = i
			terminated = true
		} else {
			length = len(data) - s.pos
		}
	}
	s.rw.RUnlock()

	out := make([]byte, length)
	if length > 0 && !s.ReadAt(out, s.pos) {
		s.eof = true
		return ""
	}
	s.pos += length
	if terminated && s.pos < capacity {
		s.pos++ // step over the terminator
	}
	if s.pos >= capacity {
		s.eof = true
	}
	return string(out)
}

// getRef advances the cursor by step and returns a direct reference to
// the bytes at the old position. Unlike the copying reads, a bounds
// failure here is hard: the caller gets nil and should surface
// ErrMemoryFault.
func (s *Stream) getRef(step int) []byte {
	curr := s.pos + step
	if curr == s.buf.Capacity() {
		s.eof = true
	}
	s.pos = curr
	p := s.Reference(curr-step, step)
	if p == nil {
		s.eof = true
	}
	return p
}

// GetAsI32 is the zero-copy counterpart of GetI32: insufficient
// remaining bytes fail with ErrMemoryFault instead of a soft zero.
func (s *Stream) GetAsI32() (int32, error) {
	p := s.getRef(4)
	if p == nil {
		return 0, fmt.Errorf("stream: read int32 at %d: %w", s.pos-4, ErrMemoryFault)
	}
	return buf.I32LE(p), nil
}

// GetAsI64 is the zero-copy counterpart of GetI64.
func (s *Stream) GetAsI64() (int64, error) {
	p := s.getRef(8)
	if p == nil {
		return 0, fmt.Errorf("stream: read int64 at %d: %w", s.pos-8, ErrMemoryFault)
	}
	return buf.I64LE(p), nil
}

// GetAsU64 is the zero-copy counterpart of GetU64.
func (s *Stream) GetAsU64() (uint64, error) {
	p := s.getRef(8)
	if p == nil {
		return 0, fmt.Errorf("stream: read uint64 at %d: %w", s.pos-8, ErrMemoryFault)
	}
	return buf.U64LE(p), nil
}

// GetView decodes a length-prefixed field: an 8-byte little-endian byte
// count followed by that many raw bytes. The returned slice aliases the
// buffer (no copy). On any bounds failure it returns nil, sets
// end-of-stream, and leaves the cursor where it was, never advancing
// past fields it could not validate. Paired with AppendString.
func (s *Stream) GetView() []byte {
	lenRef := s.Reference(s.pos, lenPrefixSize)
	if lenRef == nil {
		s.eof = true
		return nil
	}
	n := int(buf.U64LE(lenRef))
	data := s.Reference(s.pos+lenPrefixSize, n)
	if data == nil {
		s.eof = true
		return nil
	}
	s.pos += lenPrefixSize + n
	if s.pos >= s.buf.Capacity() {
		s.eof = true
	}
	return data
}

// appendRun writes p at the cursor, growing the buffer first when
// auto-expand is on and the run would not fit. Landing exactly on the
// capacity boundary sets end-of-stream; an unrecoverable bounds failure
// returns false.
func (s *Stream) appendRun(p []byte) bool {
	step := len(p)
	curr := s.pos + step
	if s.autoExpand && curr >= s.buf.Capacity() {
		if err := s.buf.Expand(curr); err != nil {
			return false
		}
	}
	if curr == s.buf.Capacity() {
		s.eof = true
	}
	s.pos = curr
	if !s.WriteAt(p, curr-step) {
		s.eof = true
		return false
	}
	return true
}

// AppendU8 writes one byte at the cursor.
func (s *Stream) AppendU8(v byte) bool {
	return s.appendRun([]byte{v})
}

// AppendI32 writes v little-endian at the cursor.
func (s *Stream) AppendI32(v int32) bool {
	var b [4]byte
	buf.PutI32LE(b[:], v)
	return s.appendRun(b[:])
}

// AppendI64 writes v little-endian at the cursor.
func (s *Stream) AppendI64(v int64) bool {
	var b [8]byte
	buf.PutI64LE(b[:], v)
	return s.appendRun(b[:])
}

// AppendU64 writes v little-endian at the cursor.
func (s *Stream) AppendU64(v uint64) bool {
	var b [8]byte
	buf.PutU64LE(b[:], v)
	return s.appendRun(b[:])
}

// AppendString writes a length-prefixed field: the byte length as an
// 8-byte little-endian count, then the raw bytes. Paired with GetView.
func (s *Stream) AppendString(v string) bool {
	var prefix [lenPrefixSize]byte
	buf.PutU64LE(prefix[:], uint64(len(v)))
	if !s.appendRun(prefix[:]) {
		return false
	}
	return s.appendRun([]byte(v))
}

// AppendBytes writes a raw byte run with no length prefix.
func (s *Stream) AppendBytes(p []byte) bool {
	return s.appendRun(p)
}

// Rewind resets the cursor to the start under the exclusive data lock.
func (s *Stream) Rewind() {
	s.rw.Lock()
	s.pos = 0
	s.rw.Unlock()
}

// Forward moves the cursor ahead by n, setting end-of-stream when it
// reaches or passes capacity.
func (s *Stream) Forward(n int) {
	s.pos += n
	if s.pos >= s.buf.Capacity() {
		s.eof = true
	}
}

// Back moves the cursor back by n, clearing end-of-stream when the new
// position is inside the buffer again.
func (s *Stream) Back(n int) {
	s.pos -= n
	if s.pos < s.buf.Capacity() {
		s.eof = false
	}
}

// SetAutoExpand toggles growth-on-append.
func (s *Stream) SetAutoExpand(enable bool) {
	s.autoExpand = enable
}

// EOF reports whether the cursor has reached or exceeded capacity during
// a read or write. Recoverable and checkable, not an error.
func (s *Stream) EOF() bool { return s.eof }

// ClearEOF resets the end-of-stream flag.
func (s *Stream) ClearEOF() { s.eof = false }

// Position reports the current cursor offset.
func (s *Stream) Position() int { return s.pos }
