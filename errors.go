package dynamodblocal

import (
	"errors"
	"fmt"
)

// Common errors returned by provisioning and lifecycle operations
var (
	// ErrInvalidSource indicates a local source was missing or does not exist
	ErrInvalidSource = errors.New("dynamodblocal: invalid source")

	// ErrFetch indicates the archive download failed
	ErrFetch = errors.New("dynamodblocal: fetch failed")

	// ErrExtract indicates the archive could not be decompressed
	ErrExtract = errors.New("dynamodblocal: extraction failed")

	// ErrWrite indicates the raw archive could not be saved
	ErrWrite = errors.New("dynamodblocal: write failed")

	// ErrAlreadyRunning indicates Start was called while a process handle exists
	ErrAlreadyRunning = errors.New("dynamodblocal: instance already running")

	// ErrInvalidPort indicates a configured port is outside 1024-65535
	ErrInvalidPort = errors.New("dynamodblocal: port out of range")

	// ErrInvalidMode indicates a configured mode is not a recognized value
	ErrInvalidMode = errors.New("dynamodblocal: unrecognized mode")
)

// OpError represents an error from a library operation
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Path is the file path or URL involved in the operation
	Path string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("dynamodblocal %s %q: %v", e.Op.String(), e.Path, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}
