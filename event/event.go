package event

import "github.com/mvoss/evkit/mem"

// Event is anything that can ride a Channel: it names its wire-level
// type id and serializes itself into a shared buffer.
//
// EventID must be stable across the process and across the wire, unique
// per concrete type, and callable on the zero value (event types are
// plain value structs). Content hands the caller a fresh reference; the
// caller releases it.
type Event interface {
	EventID() int32
	Content() (*mem.SharedBuffer, error)
}

// Decoder reconstructs a concrete event from its serialized payload.
// The buffer is borrowed: a decoder must copy out anything it keeps and
// must not release the reference it was handed.
type Decoder[E Event] func(*mem.SharedBuffer) (E, error)
