package logarray

import (
	"errors"
	"fmt"
	"io/fs"
)

// MaxLength is the largest element count a control word can represent
// (2^56 - 1): bytes 5-7 carry the high 24 bits of the count (byte 4 holds
// the width), on top of the 32 bits in bytes 0-3.
const MaxLength = 1<<56 - 1

// ErrInputBufferTooSmall is returned when a buffer handed to Parse or
// ParseHeaderFirst has fewer than the 8 bytes a control word requires.
type ErrInputBufferTooSmall struct {
	Size int
}

func (e *ErrInputBufferTooSmall) Error() string {
	return fmt.Sprintf("logarray: expected input buffer size (%d) >= 8", e.Size)
}

// ErrWidthTooLarge is returned when a control word claims a bit width over
// 64, which cannot fit in a single 64-bit word's worth of shifting.
type ErrWidthTooLarge struct {
	Width uint8
}

func (e *ErrWidthTooLarge) Error() string {
	return fmt.Sprintf("logarray: expected width (%d) <= 64", e.Width)
}

// ErrUnexpectedInputBufferSize is returned when a buffer's size does not
// match what the control word's (length, width) pair implies.
type ErrUnexpectedInputBufferSize struct {
	Actual, Expected, Length uint64
	Width                    uint8
}

func (e *ErrUnexpectedInputBufferSize) Error() string {
	return fmt.Sprintf(
		"logarray: expected input buffer size (%d) to be %d for %d elements and width %d",
		e.Actual, e.Expected, e.Length, e.Width,
	)
}

// ErrLengthExceedsLimit is returned by Encode when asked to write a control
// word for more than MaxLength elements.
type ErrLengthExceedsLimit struct {
	Length uint64
}

func (e *ErrLengthExceedsLimit) Error() string {
	return fmt.Sprintf("logarray: length (%d) exceeds control word limit (%d)", e.Length, uint64(MaxLength))
}

// ErrValueExceedsWidth is the error a storage-backed Builder.Push returns
// when a pushed value does not fit in the builder's configured width. The
// in-memory BufBuilder used by tests and LateBuilder panics instead; see
// BufBuilder.Push.
type ErrValueExceedsWidth struct {
	Value uint64
	Width uint8
}

func (e *ErrValueExceedsWidth) Error() string {
	return fmt.Sprintf("logarray: expected value (%d) to fit in %d bits", e.Value, e.Width)
}

// ErrNotMonotonic is returned by NewMonotonicArrayChecked when an array
// contains a decrease.
type ErrNotMonotonic struct {
	Predecessor, Successor uint64
}

func (e *ErrNotMonotonic) Error() string {
	return fmt.Sprintf("logarray: not monotonic: expected predecessor (%d) <= successor (%d)", e.Predecessor, e.Successor)
}

// AsIOError converts a data-shape parse error (any of the Err* types above
// returned by Parse/ParseHeaderFirst) into an error chaining to
// fs.ErrInvalid, for callers that need to report it across an I/O boundary
// (e.g. a caller that otherwise only deals in *fs.PathError). Any other
// error is returned unchanged.
func AsIOError(err error) error {
	if err == nil {
		return nil
	}
	var small *ErrInputBufferTooSmall
	var wide *ErrWidthTooLarge
	var size *ErrUnexpectedInputBufferSize
	if !errors.As(err, &small) && !errors.As(err, &wide) && !errors.As(err, &size) {
		return err
	}
	return &fs.PathError{Op: "parse", Path: "logarray", Err: fmt.Errorf("%w: %s", fs.ErrInvalid, err)}
}
