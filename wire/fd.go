package wire

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// FD adapts a raw file descriptor (socket or pipe) to Conn. The
// descriptor should be in non-blocking mode so ReadAvailable never
// stalls; Socketpair sets this up.
type FD int

func (fd FD) Write(p []byte) (int, error) {
	n, err := unix.Write(int(fd), p)
	if err != nil {
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			return 0, ErrAgain
		}
		return 0, fmt.Errorf("wire: write fd %d: %w", int(fd), err)
	}
	return n, nil
}

func (fd FD) ReadAvailable(p []byte) (int, error) {
	for {
		n, err := unix.Read(int(fd), p)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return 0, ErrNoData
		case err != nil:
			return 0, fmt.Errorf("wire: read fd %d: %w", int(fd), err)
		case n == 0:
			return 0, ErrPeerClosed
		default:
			return n, nil
		}
	}
}

// Close releases the descriptor.
func (fd FD) Close() error {
	return unix.Close(int(fd))
}

// Socketpair returns two connected non-blocking unix stream sockets,
// one Conn per end.
func Socketpair() (FD, FD, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("wire: socketpair: %w", err)
	}
	for _, fd := range fds {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return 0, 0, fmt.Errorf("wire: set nonblocking: %w", err)
		}
	}
	return FD(fds[0]), FD(fds[1]), nil
}
