// Package descriptor provides byte-stream descriptors for feeding and
// draining a circbuff.CircBuff.
package descriptor

import (
	"io"
	"syscall"

	"github.com/gammazero/deque"
)

type step struct {
	data []byte
	err  error
}

// Queue is a scripted descriptor. Reads are served from queued chunks, at
// most one chunk per call, so chunk boundaries show up as short reads. An
// empty queue reports EAGAIN until CloseWrite is called, then io.EOF.
// Writes are recorded and can be capped per call or made to fail.
type Queue struct {
	in     *deque.Deque[step]
	closed bool

	out        []byte
	writeLimit int
	writeErrs  *deque.Deque[error]
}

func NewQueue() *Queue {
	return &Queue{
		in:        deque.New[step](),
		writeErrs: deque.New[error](),
	}
}

// Push queues a chunk for a later Read. p is copied.
func (q *Queue) Push(p []byte) {
	if len(p) == 0 {
		return
	}
	q.in.PushBack(step{data: append([]byte(nil), p...)})
}

// PushError queues a failure returned by the Read that reaches it.
func (q *Queue) PushError(err error) {
	q.in.PushBack(step{err: err})
}

// CloseWrite marks the end of the stream once the queued chunks are read.
func (q *Queue) CloseWrite() {
	q.closed = true
}

// Pending returns the number of queued bytes not yet read.
func (q *Queue) Pending() int {
	n := 0
	for i := 0; i < q.in.Len(); i++ {
		n += len(q.in.At(i).data)
	}
	return n
}

func (q *Queue) Read(p []byte) (int, error) {
	if q.in.Len() == 0 {
		if q.closed {
			return 0, io.EOF
		}
		return 0, syscall.EAGAIN
	}
	if len(p) == 0 {
		return 0, nil
	}

	front := q.in.PopFront()
	if front.err != nil {
		return 0, front.err
	}
	n := copy(p, front.data)
	if n < len(front.data) {
		q.in.PushFront(step{data: front.data[n:]})
	}
	return n, nil
}

// SetWriteLimit caps how many bytes a single Write accepts. Zero removes the
// cap.
func (q *Queue) SetWriteLimit(n int) {
	q.writeLimit = n
}

// FailWrite makes the next Write return err without accepting anything.
func (q *Queue) FailWrite(err error) {
	q.writeErrs.PushBack(err)
}

func (q *Queue) Write(p []byte) (int, error) {
	if q.writeErrs.Len() > 0 {
		return 0, q.writeErrs.PopFront()
	}
	n := len(p)
	if q.writeLimit > 0 && n > q.writeLimit {
		n = q.writeLimit
	}
	q.out = append(q.out, p[:n]...)
	return n, nil
}

// Written returns everything accepted by Write so far.
func (q *Queue) Written() []byte {
	return q.out
}

// Reset drops queued input, recorded output and injected failures.
func (q *Queue) Reset() {
	q.in.Clear()
	q.writeErrs.Clear()
	q.out = nil
	q.closed = false
}
