package circbuff

import (
	"io"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// Source is the read half of a descriptor. A call may return fewer bytes than
// len(p). p is the buffer's own storage: implementations must not retain it
// after Read returns, the same contract io.Reader states.
type Source interface {
	Read(p []byte) (int, error)
}

// Sink is the write half of a descriptor. A call may accept fewer bytes than
// len(p). Implementations must not modify p or retain it after Write returns.
type Sink interface {
	Write(p []byte) (int, error)
}

// Stop says why a descriptor transfer ended.
type Stop int

const (
	StopFull    Stop = iota // no free space left
	StopDrained             // no buffered data left
	StopShort               // an attempt moved fewer bytes than requested
	StopEOF                 // the source reported end of stream
	StopError               // the descriptor failed
)

var stopString = map[Stop]string{
	StopFull:    "full",
	StopDrained: "drained",
	StopShort:   "short",
	StopEOF:     "eof",
	StopError:   "error",
}

func (s Stop) String() string {
	if str, ok := stopString[s]; ok {
		return str
	}
	return "unknown"
}

// Transfer is the outcome of ReadFromDescriptor or WriteToDescriptor. N counts
// every byte moved by the call, including bytes moved before an error.
type Transfer struct {
	N    int
	Stop Stop
}

// ReadFromDescriptor pulls bytes from src into the free space. Each attempt
// asks for the largest contiguous free run at the tail; copying stops when the
// buffer is full or an attempt returns anything other than what was asked for.
// Short reads, would-block and io.EOF are reported through Transfer.Stop with
// a nil error. Any other failure returns a *DescriptorError.
func (cb *CircBuff) ReadFromDescriptor(src Source) (Transfer, error) {
	var t Transfer
	for cb.RemainingCapacity() > 0 {
		first, _ := split(cb.capacity, cb.tail(), cb.RemainingCapacity())
		want := first.len()

		n, err := src.Read(cb.buff[first.lo:first.hi])
		n = clamp(n, want)
		cb.produce(n)
		t.N += n

		if err != nil {
			return classify(t, "read", err)
		}
		if n != want {
			t.Stop = StopShort
			return t, nil
		}
	}
	t.Stop = StopFull
	return t, nil
}

// WriteToDescriptor pushes buffered bytes to dst. Each attempt offers the
// largest contiguous run at the head; copying stops when the buffer is empty
// or an attempt accepts anything other than what was offered.
func (cb *CircBuff) WriteToDescriptor(dst Sink) (Transfer, error) {
	var t Transfer
	for cb.size > 0 {
		first, _ := split(cb.capacity, cb.position, cb.size)
		want := first.len()

		n, err := dst.Write(cb.buff[first.lo:first.hi])
		n = clamp(n, want)
		cb.consume(n)
		t.N += n

		if err != nil {
			return classify(t, "write", err)
		}
		if n != want {
			t.Stop = StopShort
			return t, nil
		}
	}
	t.Stop = StopDrained
	return t, nil
}

// clamp guards against descriptors that report impossible counts.
func clamp(n, want int) int {
	if n < 0 {
		return 0
	}
	if n > want {
		return want
	}
	return n
}

func classify(t Transfer, op string, err error) (Transfer, error) {
	switch {
	case err == io.EOF:
		t.Stop = StopEOF
		return t, nil
	case wouldBlock(err), errors.Is(err, io.ErrShortWrite):
		t.Stop = StopShort
		return t, nil
	}
	t.Stop = StopError
	return t, &DescriptorError{Op: op, Err: err}
}

func wouldBlock(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EWOULDBLOCK) ||
		errors.Is(err, os.ErrDeadlineExceeded)
}
