package wire

import (
	"errors"
	"fmt"

	"github.com/mvoss/evkit/event"
	"github.com/mvoss/evkit/internal/buf"
	"github.com/mvoss/evkit/mem"
)

const (
	// HeaderSize is the fixed packet header width: 4 bytes of event type
	// id plus 8 bytes of payload length, regardless of platform word
	// size. Both sides must frame on exactly these 12 bytes.
	HeaderSize = 12

	// drainChunk sizes the scratch reads of the receive drain.
	drainChunk = 1024
)

// SendPacket serializes ev and writes header then payload to c. Writes
// block until everything is out: partial writes continue where they left
// off and transient conditions retry transparently. Only a non-transient
// error surfaces, and the caller should then drop the connection.
func SendPacket(c Conn, ev event.Event) error {
	content, err := ev.Content()
	if err != nil {
		return err
	}
	defer content.Release()

	var hdr [HeaderSize]byte
	buf.PutI32LE(hdr[0:4], ev.EventID())
	buf.PutI64LE(hdr[4:12], int64(content.Capacity()))
	if err := writeFull(c, hdr[:]); err != nil {
		return fmt.Errorf("wire: send header: %w", err)
	}

	payload := make([]byte, content.Capacity())
	s := mem.NewStream(content)
	if !s.ReadAt(payload, 0) {
		return fmt.Errorf("wire: send payload: %w", mem.ErrMemoryFault)
	}
	if err := writeFull(c, payload); err != nil {
		return fmt.Errorf("wire: send payload: %w", err)
	}
	return nil
}

// writeFull loops until p is fully written, retrying transient errors.
func writeFull(c Conn, p []byte) error {
	for len(p) > 0 {
		n, err := c.Write(p)
		if err != nil {
			if errors.Is(err, ErrAgain) {
				continue
			}
			return err
		}
		p = p[n:]
	}
	return nil
}

// RecvPacket drains whatever bytes c currently has ready, parses the
// 12-byte header, and copies the payload into a freshly allocated shared
// buffer of exactly the declared length. The caller typically hands the
// result straight to Channel.PostBuffer.
//
// Returns ErrNoData when nothing was ready (poll again later) and
// ErrPeerClosed when the other end shut down.
func RecvPacket(c Conn) (int32, *mem.SharedBuffer, error) {
	in, err := drain(c)
	if err != nil {
		return 0, nil, err
	}
	defer in.Release()

	s := mem.NewStream(in)
	evid, err := s.GetAsI32()
	if err != nil {
		return 0, nil, fmt.Errorf("wire: packet type id: %w", err)
	}
	size, err := s.GetAsI64()
	if err != nil {
		return 0, nil, fmt.Errorf("wire: packet length: %w", err)
	}
	if size < 0 {
		return 0, nil, fmt.Errorf("wire: packet length %d: %w", size, mem.ErrMemoryFault)
	}
	payload := s.Reference(HeaderSize, int(size))
	if payload == nil {
		return 0, nil, fmt.Errorf("wire: packet payload of %d bytes: %w", size, mem.ErrMemoryFault)
	}

	out, err := mem.NewShared(int(size), nil)
	if err != nil {
		return 0, nil, err
	}
	os := mem.NewStream(out)
	if !os.AppendBytes(payload) {
		out.Release()
		return 0, nil, fmt.Errorf("wire: copy payload: %w", mem.ErrMemoryFault)
	}
	return evid, out, nil
}

// drain reads until the channel reports no more data ready, growing the
// buffer as bytes arrive. An empty drain is ErrNoData, not a packet of
// zeros.
func drain(c Conn) (*mem.UniqueBuffer, error) {
	b, err := mem.NewUnique(drainChunk, nil)
	if err != nil {
		return nil, err
	}
	s := mem.NewStream(b)
	s.SetAutoExpand(true)

	tmp := make([]byte, drainChunk)
	total := 0
	for {
		n, err := c.ReadAvailable(tmp)
		if errors.Is(err, ErrNoData) {
			break
		}
		if err != nil {
			b.Release()
			return nil, err
		}
		if !s.AppendBytes(tmp[:n]) {
			b.Release()
			return nil, fmt.Errorf("wire: buffer drained bytes: %w", mem.ErrMemoryFault)
		}
		total += n
	}
	if total == 0 {
		b.Release()
		return nil, ErrNoData
	}
	return b, nil
}
