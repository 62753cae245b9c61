// Package circbuff implements a fixed-capacity circular byte buffer that
// stages bytes between a byte-stream descriptor and a protocol layer.
//
// A CircBuff is not safe for concurrent use. All transfers copy; no method
// hands out a slice of the buffer's storage.
package circbuff

import (
	"fmt"

	"github.com/pkg/errors"
)

// ------|=================|--------------------|
//     position      position+size          capacity
//
// The valid window starts at position and wraps past capacity back to 0.
// Indices outside the window hold stale bytes.

type CircBuff struct {
	buff     []byte
	capacity int
	position int
	size     int
}

// New allocates a buffer holding exactly capacity bytes.
func New(capacity int) (cb *CircBuff, err error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrAllocation, "capacity %d must be positive", capacity)
	}

	// make panics when the length is out of range for the platform
	defer func() {
		if r := recover(); r != nil {
			cb = nil
			err = errors.Wrapf(ErrAllocation, "capacity %d: %v", capacity, r)
		}
	}()
	return &CircBuff{
		buff:     make([]byte, capacity),
		capacity: capacity,
	}, nil
}

// Close releases the storage. The buffer behaves as a zero-capacity buffer
// afterwards.
func (cb *CircBuff) Close() error {
	if cb.buff == nil {
		return ErrClosed
	}
	cb.buff = nil
	cb.capacity = 0
	cb.position = 0
	cb.size = 0
	return nil
}

func (cb *CircBuff) Capacity() int {
	return cb.capacity
}

func (cb *CircBuff) Size() int {
	return cb.size
}

// RemainingCapacity returns the total free space. It is not necessarily
// writable in one contiguous copy; see WritableLen.
func (cb *CircBuff) RemainingCapacity() int {
	return cb.capacity - cb.size
}

// WritableLen returns the free space directly after the tail, i.e. what a
// single contiguous copy can fill.
func (cb *CircBuff) WritableLen() int {
	if cb.size == cb.capacity {
		return 0
	}
	first, _ := split(cb.capacity, cb.tail(), cb.RemainingCapacity())
	return first.len()
}

// ReadableLen returns the valid bytes readable from the head in one
// contiguous copy.
func (cb *CircBuff) ReadableLen() int {
	if cb.size == 0 {
		return 0
	}
	first, _ := split(cb.capacity, cb.position, cb.size)
	return first.len()
}

// Empty forgets the buffered data. Storage is not touched.
func (cb *CircBuff) Empty() {
	cb.position = 0
	cb.size = 0
}

// Peek copies the first len(p) buffered bytes into p without consuming them.
func (cb *CircBuff) Peek(p []byte) error {
	if len(p) > cb.size {
		return errors.Wrapf(ErrInsufficientData, "peek %d bytes, %d buffered", len(p), cb.size)
	}
	cb.copyOut(p)
	return nil
}

// Read copies the first len(p) buffered bytes into p and consumes them.
func (cb *CircBuff) Read(p []byte) error {
	if len(p) > cb.size {
		return errors.Wrapf(ErrInsufficientData, "read %d bytes, %d buffered", len(p), cb.size)
	}
	cb.copyOut(p)
	cb.consume(len(p))
	return nil
}

// Discard consumes n bytes from the front without copying them anywhere.
func (cb *CircBuff) Discard(n int) error {
	if n < 0 || n > cb.size {
		return errors.Wrapf(ErrInsufficientData, "discard %d bytes, %d buffered", n, cb.size)
	}
	cb.consume(n)
	return nil
}

// Write appends all of p, or nothing if p does not fit.
func (cb *CircBuff) Write(p []byte) error {
	if len(p) > cb.RemainingCapacity() {
		return errors.Wrapf(ErrCapacityExceeded, "write %d bytes, %d free", len(p), cb.RemainingCapacity())
	}
	if len(p) == 0 {
		return nil
	}
	first, second := split(cb.capacity, cb.tail(), len(p))
	n := copy(cb.buff[first.lo:first.hi], p)
	copy(cb.buff[second.lo:second.hi], p[n:])
	cb.size += len(p)
	return nil
}

// Bytes returns a copy of the buffered data.
func (cb *CircBuff) Bytes() []byte {
	buf := make([]byte, cb.size)
	cb.copyOut(buf)
	return buf
}

func (cb *CircBuff) String() string {
	return fmt.Sprintf("circbuff{pos=%d size=%d cap=%d}", cb.position, cb.size, cb.capacity)
}

// tail is the physical index one past the last valid byte.
func (cb *CircBuff) tail() int {
	return wrap(cb.capacity, cb.position, cb.size)
}

// copyOut fills p from the head of the window. len(p) <= size.
func (cb *CircBuff) copyOut(p []byte) {
	if len(p) == 0 {
		return
	}
	first, second := split(cb.capacity, cb.position, len(p))
	n := copy(p, cb.buff[first.lo:first.hi])
	copy(p[n:], cb.buff[second.lo:second.hi])
}

func (cb *CircBuff) consume(n int) {
	cb.position = wrap(cb.capacity, cb.position, n)
	cb.size -= n
}

// produce marks n bytes written at the tail as valid.
func (cb *CircBuff) produce(n int) {
	cb.size += n
}
