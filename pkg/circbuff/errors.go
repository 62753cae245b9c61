package circbuff

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrAllocation       = errors.New("buffer storage could not be allocated")
	ErrInsufficientData = errors.New("not enough data in buffer")
	ErrCapacityExceeded = errors.New("not enough free space in buffer")
	ErrDescriptorIO     = errors.New("descriptor i/o failed")
	ErrClosed           = errors.New("buffer already closed")
)

// DescriptorError reports a failed read or write on the descriptor side of a
// transfer. The buffer keeps whatever was moved before the failure.
type DescriptorError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("descriptor %s: %v", e.Op, e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

// Cause lets errors.Cause from github.com/pkg/errors reach the descriptor error.
func (e *DescriptorError) Cause() error { return e.Err }

func (e *DescriptorError) Is(target error) bool { return target == ErrDescriptorIO }
