package bencode

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated      = errors.New("bencode: truncated data")
	ErrInvalidLength  = errors.New("bencode: invalid string length")
	ErrInvalidInteger = errors.New("bencode: invalid integer")
	ErrInvalidKey     = errors.New("bencode: dict key is not a byte string")
	ErrDuplicateKey   = errors.New("bencode: duplicate dict key")
	ErrUnexpectedByte = errors.New("bencode: unexpected byte")
	ErrTooDeep        = errors.New("bencode: nesting too deep")
)

// DecodeError records where in the input a decode failed.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
