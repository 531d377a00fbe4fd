package loader

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed loader failures.
var (
	ErrFileNotFound  = errors.New("file not found")
	ErrInvalidFormat = errors.New("invalid network data")
)

// FileNotFoundError reports a source that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %s was not found", e.Path)
}

// Is makes errors.Is(err, ErrFileNotFound) succeed.
func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrFileNotFound
}

// InvalidFormatError reports a source that exists but does not describe a
// well-formed network. Err holds the underlying parse or validation failure
// and is reachable through errors.Unwrap; it is not part of the message.
type InvalidFormatError struct {
	Path string
	Err  error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("file %s is not a valid ProNet data file", e.Path)
}

// Is makes errors.Is(err, ErrInvalidFormat) succeed.
func (e *InvalidFormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

func invalid(path string, err error) error {
	return &InvalidFormatError{Path: path, Err: err}
}
