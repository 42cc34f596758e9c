package procman

import (
	"errors"
	"fmt"
)

// Common errors returned by supervision operations
var (
	// ErrNoSuchProcess indicates no record exists for the requested name
	ErrNoSuchProcess = errors.New("procman: no such process")

	// ErrStopTimeout indicates a process survived SIGTERM and SIGKILL
	// within the configured stop timeout
	ErrStopTimeout = errors.New("procman: process did not stop")

	// ErrDecode indicates a process record could not be decoded
	ErrDecode = errors.New("procman: record decode")

	// ErrInvalidSpec indicates a process spec is missing its name or command
	ErrInvalidSpec = errors.New("procman: invalid process spec")
)

// OpError represents an error from a supervision operation
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Path is the file path involved in the operation
	Path string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("procman %s %q: %v", e.Op.String(), e.Path, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// MultiError aggregates multiple errors from bulk operations
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
