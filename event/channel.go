package event

import "github.com/mvoss/evkit/mem"

// CallbackID identifies one subscription on one Channel. Ids are
// strictly increasing and never reused, even after unsubscribe.
type CallbackID int

type handler struct {
	fn func(*mem.SharedBuffer) error
	id CallbackID
}

// Channel is the in-process typed publish/subscribe registry, keyed by
// event type id with subscribers kept in registration order.
//
// A Channel performs no internal locking. Subscribe, Unsubscribe and
// Post must run on a single goroutine, or the caller must synchronize
// them externally. The buffers flowing through it are safe to share
// across goroutines; the registry is not.
type Channel struct {
	handlers map[int32][]handler
	nextID   CallbackID
}

// NewChannel returns an empty channel.
func NewChannel() *Channel {
	return &Channel{handlers: make(map[int32][]handler)}
}

// Subscribe registers fn for events of type E, decoded by dec. It
// returns the callback id to pass to Unsubscribe.
//
// Delivery is synchronous on the posting goroutine. The decoded event's
// payload reference is dropped when fn returns, so fn must not retain
// views into the event's buffer past its own return.
func Subscribe[E Event](c *Channel, dec Decoder[E], fn func(E)) CallbackID {
	var zero E
	id := c.nextID
	c.nextID++
	c.handlers[zero.EventID()] = append(c.handlers[zero.EventID()], handler{
		id: id,
		fn: func(b *mem.SharedBuffer) error {
			defer b.Release()
			ev, err := dec(b)
			if err != nil {
				return err
			}
			fn(ev)
			return nil
		},
	})
	return id
}

// Unsubscribe removes the subscription for E with the given id,
// reporting whether one was found. O(n) in the subscribers of that
// event type.
func Unsubscribe[E Event](c *Channel, id CallbackID) bool {
	var zero E
	hs := c.handlers[zero.EventID()]
	for i := range hs {
		if hs[i].id == id {
			c.handlers[zero.EventID()] = append(hs[:i], hs[i+1:]...)
			return true
		}
	}
	return false
}

// Post serializes ev exactly once and delivers it to every subscriber
// registered for its type, in registration order, synchronously. Each
// subscriber receives an independent reference to the one serialized
// buffer; no byte copies are made for fan-out.
//
// A decode failure or a dead buffer stops delivery and surfaces to the
// caller; subscribers earlier in the order have already run by then.
func Post[E Event](c *Channel, ev E) error {
	content, err := ev.Content()
	if err != nil {
		return err
	}
	defer content.Release()
	return c.PostBuffer(ev.EventID(), content)
}

// PostBuffer fans an already-serialized payload out to every subscriber
// of evid. This is the entry point for events arriving off the wire,
// where only the type id and payload bytes are known.
func (c *Channel) PostBuffer(evid int32, b *mem.SharedBuffer) error {
	for _, h := range c.handlers[evid] {
		ref, err := b.Copy()
		if err != nil {
			return err
		}
		if err := h.fn(ref); err != nil {
			return err
		}
	}
	return nil
}

// Subscribers reports how many subscriptions are registered for evid.
func (c *Channel) Subscribers(evid int32) int {
	return len(c.handlers[evid])
}
