package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvoss/evkit/event"
	"github.com/mvoss/evkit/events"
	"github.com/mvoss/evkit/mem"
)

func testPair(t *testing.T) (FD, FD) {
	t.Helper()
	a, b, err := Socketpair()
	require.NoError(t, err)
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}

func contentBytes(t *testing.T, ev event.Event) []byte {
	t.Helper()
	c, err := ev.Content()
	require.NoError(t, err)
	defer c.Release()
	out := make([]byte, c.Capacity())
	require.True(t, mem.NewStream(c).ReadAt(out, 0))
	return out
}

func Test_Packet_WireRoundTrip(t *testing.T) {
	a, b := testPair(t)

	in := events.LogEvent{Level: events.LevelWarn, Time: 1234, Source: "origin", Message: "payload intact"}
	require.NoError(t, SendPacket(a, in))

	evid, payload, err := RecvPacket(b)
	require.NoError(t, err)
	defer payload.Release()

	assert.Equal(t, events.LogEventID, evid)

	// Payload bytes match the sender's serialized content exactly.
	got := make([]byte, payload.Capacity())
	require.True(t, mem.NewStream(payload).ReadAt(got, 0))
	assert.Equal(t, contentBytes(t, in), got)

	out, err := events.DecodeLog(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func Test_Packet_EndToEndDelivery(t *testing.T) {
	// The full story: construct, ship across a socket pair, reconstruct
	// on a local channel, observe every field.
	a, b := testPair(t)

	in := events.LogEvent{
		Level:   events.LevelError,
		Time:    1700000000,
		Source:  "svc",
		Message: "boom",
	}
	require.NoError(t, SendPacket(a, in))

	evid, payload, err := RecvPacket(b)
	require.NoError(t, err)
	defer payload.Release()
	require.Equal(t, in.EventID(), evid)

	ch := event.NewChannel()
	var got []events.LogEvent
	event.Subscribe(ch, events.DecodeLog, func(e events.LogEvent) {
		got = append(got, e)
	})
	require.NoError(t, ch.PostBuffer(evid, payload))

	require.Len(t, got, 1)
	assert.Equal(t, events.LevelError, got[0].Level)
	assert.Equal(t, int64(1700000000), got[0].Time)
	assert.Equal(t, "svc", got[0].Source)
	assert.Equal(t, "boom", got[0].Message)
}

func Test_Packet_TickAcrossTheWire(t *testing.T) {
	a, b := testPair(t)

	require.NoError(t, SendPacket(a, events.TickEvent{Ticks: 4096}))
	evid, payload, err := RecvPacket(b)
	require.NoError(t, err)
	defer payload.Release()

	require.Equal(t, events.TickEventID, evid)
	out, err := events.DecodeTick(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), out.Ticks)
}

func Test_Packet_NoDataIsPollable(t *testing.T) {
	_, b := testPair(t)
	_, _, err := RecvPacket(b)
	assert.ErrorIs(t, err, ErrNoData)
}

func Test_Packet_PeerShutdown(t *testing.T) {
	a, b := testPair(t)
	require.NoError(t, a.Close())

	_, _, err := RecvPacket(b)
	assert.ErrorIs(t, err, ErrPeerClosed)
}

// flakyConn models a socket whose buffer is momentarily full: the first
// few writes report would-block, then bytes trickle out a chunk at a
// time.
type flakyConn struct {
	failures int
	chunk    int
	wrote    []byte
}

func (f *flakyConn) Write(p []byte) (int, error) {
	if f.failures > 0 {
		f.failures--
		return 0, ErrAgain
	}
	n := len(p)
	if f.chunk > 0 && n > f.chunk {
		n = f.chunk
	}
	f.wrote = append(f.wrote, p[:n]...)
	return n, nil
}

func (f *flakyConn) ReadAvailable([]byte) (int, error) {
	return 0, ErrNoData
}

func Test_Packet_PartialWriteRetry(t *testing.T) {
	fc := &flakyConn{failures: 5, chunk: 3}

	in := events.LogEvent{Level: events.LevelInfo, Time: 99, Source: "s", Message: "all bytes arrive"}
	require.NoError(t, SendPacket(fc, in))

	want := contentBytes(t, in)
	require.Equal(t, HeaderSize+len(want), len(fc.wrote))
	assert.Equal(t, want, fc.wrote[HeaderSize:])
}

// queueConn hands RecvPacket canned bytes in fixed-size slices.
type queueConn struct {
	data []byte
}

func (q *queueConn) Write(p []byte) (int, error) { return len(p), nil }

func (q *queueConn) ReadAvailable(p []byte) (int, error) {
	if len(q.data) == 0 {
		return 0, ErrNoData
	}
	n := copy(p, q.data)
	q.data = q.data[n:]
	return n, nil
}

func Test_Packet_TruncatedHeader(t *testing.T) {
	// 6 bytes on the wire: the header fields read as zero padding and the
	// implied payload length cannot be satisfied from the drained region.
	_, _, err := RecvPacket(&queueConn{data: []byte{1, 0, 0, 0, 9, 9}})
	assert.ErrorIs(t, err, mem.ErrMemoryFault)
}

func Test_Packet_LengthBeyondDrainedBytes(t *testing.T) {
	// A header declaring far more payload than was drained must fail the
	// payload bounds check, not fabricate bytes.
	var hdr [HeaderSize]byte
	hdr[0] = 1
	hdr[4] = 0xFF
	hdr[5] = 0xFF
	hdr[6] = 0xFF // payload length 0xFFFFFF, way past the drained region
	_, _, err := RecvPacket(&queueConn{data: hdr[:]})
	assert.ErrorIs(t, err, mem.ErrMemoryFault)
}
