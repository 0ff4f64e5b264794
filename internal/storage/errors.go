package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrNotFound indicates the requested object does not exist.
	ErrNotFound = errors.New("storage: object not found")

	// ErrPreconditionFailed indicates a conditional write lost to an
	// existing object.
	ErrPreconditionFailed = errors.New("storage: precondition failed")

	// ErrTooManyKeys indicates a batch delete above the per-request limit.
	ErrTooManyKeys = errors.New("storage: too many keys in batch")
)

// Error wraps a failed store operation with its key context.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage.%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, key string, err error) *Error {
	return &Error{Op: op, Key: key, Err: err}
}
