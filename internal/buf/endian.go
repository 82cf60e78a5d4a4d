// Package buf contains bounds helpers and endian-safe codec routines for
// the fixed little-endian wire encoding used throughout the module.
package buf

import "encoding/binary"

// I32LE reads a little-endian int32 from b. Returns 0 when b is too short.
func I32LE(b []byte) int32 {
	if len(b) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// I64LE reads a little-endian int64 from b. Returns 0 when b is too short.
func I64LE(b []byte) int64 {
	if len(b) < 8 {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// PutI32LE writes v to b in little-endian order. No-op when b is too short.
func PutI32LE(b []byte, v int32) {
	if len(b) < 4 {
		return
	}
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// PutI64LE writes v to b in little-endian order. No-op when b is too short.
func PutI64LE(b []byte, v int64) {
	if len(b) < 8 {
		return
	}
	binary.LittleEndian.PutUint64(b, uint64(v))
}

// PutU64LE writes v to b in little-endian order. No-op when b is too short.
func PutU64LE(b []byte, v uint64) {
	if len(b) < 8 {
		return
	}
	binary.LittleEndian.PutUint64(b, v)
}
