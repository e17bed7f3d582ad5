package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated      = errors.New("protocol: truncated data")
	ErrInvalidLength  = errors.New("protocol: invalid length")
	ErrLengthOverflow = errors.New("protocol: length does not fit in u32")
	ErrLimitExceeded  = errors.New("protocol: limit exceeded")
	ErrTrailingBytes  = errors.New("protocol: trailing bytes after message")
	ErrOddCoords      = errors.New("protocol: odd coordinate count")
)

// EncodingError reports a value that cannot be written in the wire format.
// Contour is -1 when the failure is not tied to a single contour.
type EncodingError struct {
	Field   string
	Contour int
	Err     error
}

func (e *EncodingError) Error() string {
	if e.Contour < 0 {
		return fmt.Sprintf("protocol: encode %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("protocol: encode contours[%d].%s: %v", e.Contour, e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// DecodingError reports a buffer that could not be parsed. Offset is the
// cursor position at which the failing read started.
type DecodingError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf(
		"protocol: decode %s at offset %d: %v (most likely a truncated or corrupt buffer)",
		e.Field,
		e.Offset,
		e.Err,
	)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}
