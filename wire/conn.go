// Package wire frames serialized events for transport across a
// byte-stream channel: a fixed 12-byte header (int32 LE event type id,
// int64 LE payload length) followed by the raw payload bytes.
package wire

import "errors"

var (
	// ErrAgain reports a transient write condition (interrupted call or
	// full socket buffer). SendPacket retries these internally; callers
	// of Conn.Write directly may see it.
	ErrAgain = errors.New("wire: try again")

	// ErrNoData reports that a non-blocking read found nothing ready.
	// Distinct from peer shutdown; callers are expected to poll.
	ErrNoData = errors.New("wire: no data available")

	// ErrPeerClosed reports that the other end shut down (zero-length read).
	ErrPeerClosed = errors.New("wire: met EOF")
)

// Conn is the byte channel packets travel over: blocking-retry writes on
// one side, non-blocking drains on the other. An fd-backed
// implementation is FD; tests substitute in-memory fakes.
type Conn interface {
	// Write pushes up to len(p) bytes and returns how many were
	// accepted. Transient pressure is reported as ErrAgain so the
	// framing layer can retry transparently.
	Write(p []byte) (int, error)

	// ReadAvailable pulls whatever is currently ready into p without
	// blocking. ErrNoData means nothing is ready right now; ErrPeerClosed
	// means the other end shut down.
	ReadAvailable(p []byte) (int, error)
}
