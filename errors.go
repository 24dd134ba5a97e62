package fskit

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every backend. Drivers map their native errors
// into these sentinels at the wrapper boundary so callers can use errors.Is
// without knowing which backend they are talking to.
var (
	ErrNotFound      = errors.New("path does not exist")
	ErrAlreadyExists = errors.New("path already exists")
	ErrNotSupported  = errors.New("operation not supported")
	ErrNotDir        = errors.New("not a directory")
	ErrIsDir         = errors.New("is a directory")
	ErrUnavailable   = errors.New("backend unavailable")
	ErrClosed        = errors.New("stream already closed")
	ErrInvalidMode   = errors.New("invalid open mode")
)

// PathError records an error and the operation and path that caused it
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// WrapPathErr wraps err with the operation and path it belongs to.
// A nil err returns nil.
func WrapPathErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Op: op, Path: path, Err: err}
}

// IsNotFound reports whether an error indicates that a path does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether an error indicates a conflicting create
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsNotSupported reports whether an error indicates an operation that is
// meaningless for the backend it was attempted on
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}
