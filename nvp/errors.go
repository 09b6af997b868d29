package nvp

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderViolation is returned when the indices of an array field are
	// not monotonic in the response body.
	ErrOrderViolation = errors.New("nvp: array index out of order")

	// ErrIndexOutOfRange is returned when an array index exceeds MaxIndex.
	// Errors matching it also match ErrOrderViolation.
	ErrIndexOutOfRange = errors.New("nvp: array index out of range")

	// ErrMissingField is returned by typed accessors when a key is absent.
	ErrMissingField = errors.New("nvp: missing field")
)

// OrderViolationError reports an array key whose index was already filled,
// explicitly or by padding, when the key was read.
type OrderViolationError struct {
	Key    string // raw key, e.g. L_TRANSACTIONID0
	Field  string // collapsed key, e.g. L_TRANSACTIONID
	Index  int
	Length int // list length when Key was read
}

func (e *OrderViolationError) Error() string {
	return fmt.Sprintf("nvp: index mismatch parsing %s: index %d but %s already holds %d values, perhaps lost order?",
		e.Key, e.Index, e.Field, e.Length)
}

// Is implements errors.Is for sentinel error matching.
func (e *OrderViolationError) Is(target error) bool {
	return target == ErrOrderViolation
}

// IndexRangeError reports an array key with an index above MaxIndex. It
// matches both ErrIndexOutOfRange and ErrOrderViolation.
type IndexRangeError struct {
	Key   string
	Index string
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("nvp: index %s of %s exceeds %d", e.Index, e.Key, MaxIndex)
}

// Is implements errors.Is for sentinel error matching.
func (e *IndexRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange || target == ErrOrderViolation
}

// MissingFieldError reports a key that a typed accessor required.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("nvp: missing field %q", e.Key)
}

// Is implements errors.Is for sentinel error matching.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
