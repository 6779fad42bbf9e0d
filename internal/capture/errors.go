package capture

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHex   = errors.New("capture: malformed hex")
	ErrMissingHexData = errors.New("capture: hex line has no data field")
	ErrHostConflict   = errors.New("capture: host prefix mapped to both directions")
	ErrEmptyHost      = errors.New("capture: empty host identifier")
)

// FrameError is a fatal framing failure. Packet is the index the failing
// group would have had; Line is the 1-based input line it was detected on.
type FrameError struct {
	Packet int
	Line   int
	Err    error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("capture: packet %d (line %d): %v", e.Packet, e.Line, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// InputError wraps a failure reading the underlying stream. Callers treat
// it as the end of input rather than as a malformed capture.
type InputError struct {
	Line int
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("capture: read failed after line %d: %v", e.Line, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
