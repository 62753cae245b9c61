//go:build unix

package descriptor

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// FD drives a raw file descriptor with read(2) and write(2). It never opens,
// closes or reconfigures the descriptor; a non-blocking fd surfaces EAGAIN to
// the caller, which the buffer treats as a short transfer.
type FD int

// swapped in tests to inject EINTR
var (
	sysRead  = unix.Read
	sysWrite = unix.Write
)

// Stdin and Stdout are the process' standard streams.
const (
	Stdin  FD = 0
	Stdout FD = 1
)

func (fd FD) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := sysRead(int(fd), p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, os.NewSyscallError("read", err)
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

func (fd FD) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := sysWrite(int(fd), p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			if n < 0 {
				n = 0
			}
			return n, os.NewSyscallError("write", err)
		}
		return n, nil
	}
}
