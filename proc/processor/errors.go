package processor

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelCount is returned when the number of buffers or sources does
	// not match a processor's specs.
	ErrChannelCount = errors.New("processor: channel count mismatch")
	// ErrLengthMismatch is returned when a buffer is shorter than the block.
	ErrLengthMismatch = errors.New("processor: buffer shorter than block")
)

// Error reports a failure of a processor at a sample index. Transform
// errors are wrapped unchanged and remain reachable with errors.Is/As.
type Error struct {
	Processor string
	Index     int
	Err       error
}

// Fail wraps err as an *Error for processor name at sample index.
func Fail(name string, index int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Processor: name, Index: index, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("processor %s: sample %d: %v", e.Processor, e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError reports whether err is or wraps an *Error.
func IsError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}
