package events

import (
	"fmt"

	"github.com/mvoss/evkit/mem"
)

// TickEventID is the wire type id of TickEvent.
const TickEventID int32 = 2

// TickEvent marks one pulse of the global tick clock.
//
// Wire layout: a single int64 tick counter.
type TickEvent struct {
	Ticks int64
}

func (TickEvent) EventID() int32 { return TickEventID }

func (e TickEvent) Content() (*mem.SharedBuffer, error) {
	b, err := mem.NewShared(8, nil)
	if err != nil {
		return nil, err
	}
	s := mem.NewStream(b)
	if !s.AppendI64(e.Ticks) {
		b.Release()
		return nil, fmt.Errorf("events: encode tick event: %w", mem.ErrMemoryFault)
	}
	return b, nil
}

// DecodeTick reconstructs a TickEvent from a serialized payload.
func DecodeTick(b *mem.SharedBuffer) (TickEvent, error) {
	s := mem.NewStream(b)
	ticks, err := s.GetAsI64()
	if err != nil {
		return TickEvent{}, fmt.Errorf("events: tick counter: %w", err)
	}
	return TickEvent{Ticks: ticks}, nil
}
