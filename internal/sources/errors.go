package sources

import (
	"errors"
	"fmt"
)

// Common errors that can be returned by source adapters.
var (
	// ErrNotOpen is returned when Read is called before Open.
	ErrNotOpen = errors.New("source not open")

	// ErrAlreadyOpen is returned when Open is called on an already-open source.
	ErrAlreadyOpen = errors.New("source already open")
)

// ErrSourceNotFound indicates that no source adapter could handle the given path.
type ErrSourceNotFound struct {
	Path string
}

func (e *ErrSourceNotFound) Error() string {
	return fmt.Sprintf("no source found for %q", e.Path)
}

// ErrUnsupportedFormat indicates that the input file extension is not one of
// the supported export formats.
type ErrUnsupportedFormat struct {
	Path string
	Ext  string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported file format %q for %q: expected .csv or .json", e.Ext, e.Path)
}

// ErrInvalidFormat indicates that the source file has an invalid or corrupted format.
type ErrInvalidFormat struct {
	Source  string // Source adapter name
	Path    string // File path
	Details string // What was wrong
	Err     error  // Underlying error, if any
}

func (e *ErrInvalidFormat) Error() string {
	msg := fmt.Sprintf("%s: invalid format for %q", e.Source, e.Path)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrInvalidFormat) Unwrap() error {
	return e.Err
}

// ErrPermissionDenied indicates a file access permission issue.
type ErrPermissionDenied struct {
	Path string
	Op   string // Operation that failed (read, open, etc.)
	Err  error  // Underlying error
}

func (e *ErrPermissionDenied) Error() string {
	msg := fmt.Sprintf("permission denied: cannot %s %q", e.Op, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrPermissionDenied) Unwrap() error {
	return e.Err
}

// ErrFileNotFound indicates the specified file does not exist.
type ErrFileNotFound struct {
	Path string
}

func (e *ErrFileNotFound) Error() string {
	return fmt.Sprintf("file not found: %q", e.Path)
}

// IsFormatError returns true if the error is a format error.
func IsFormatError(err error) bool {
	var formatErr *ErrInvalidFormat
	return errors.As(err, &formatErr)
}

// IsUnsupportedFormat returns true if the error is an unsupported format error.
func IsUnsupportedFormat(err error) bool {
	var unsupportedErr *ErrUnsupportedFormat
	return errors.As(err, &unsupportedErr)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	var notFoundErr *ErrFileNotFound
	var sourceNotFoundErr *ErrSourceNotFound
	return errors.As(err, &notFoundErr) || errors.As(err, &sourceNotFoundErr)
}
