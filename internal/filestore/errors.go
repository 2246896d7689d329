package filestore

import (
	"errors"
	"fmt"
	"io/fs"
)

// Standard errors returned by file stores.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermission indicates the file could not be accessed.
	ErrPermission = errors.New("permission denied")

	// ErrDecode indicates the file content is not valid UTF-8.
	ErrDecode = errors.New("invalid UTF-8 content")

	// ErrIsDirectory indicates the path is a directory.
	ErrIsDirectory = errors.New("path is a directory")
)

// IOError is returned for every failed read or write.
type IOError struct {
	Op   string // read or write
	Path string // File path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates an IOError, mapping fs errors onto the package sentinels.
func NewIOError(op, path string, err error) *IOError {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPermission),
		errors.Is(err, ErrDecode), errors.Is(err, ErrIsDirectory):
	case errors.Is(err, fs.ErrNotExist):
		err = fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		err = fmt.Errorf("%w: %w", ErrPermission, err)
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// IsNotFound returns true if the error indicates a missing file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPermission returns true if the error indicates an access failure.
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsDecode returns true if the error indicates undecodable content.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}
