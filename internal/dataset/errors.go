package dataset

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound is returned when a referenced column is not in the header.
var ErrColumnNotFound = errors.New("column not found")

// ErrUnsupported indicates a file format without a registered reader.
var ErrUnsupported = errors.New("unsupported dataset format")

// LoadError indicates the file at Path could not be opened or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports a record that violates the dataset schema.
// Row is 1-based over data rows; 0 means the header.
type SchemaError struct {
	Column string
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("schema mismatch: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("schema mismatch: row %d, column %q: %s", e.Row, e.Column, e.Reason)
}
