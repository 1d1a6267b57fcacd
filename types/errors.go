package types

import (
	"fmt"
)

// NotFoundError is returned when a local input file does not exist
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}

// StorageAccessError is returned when an object cannot be read from storage.
// Code holds the provider error code, if one was returned.
type StorageAccessError struct {
	Location ObjectLocation
	Code     string
	Err      error
}

func (e *StorageAccessError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("failed to read %s (%s), %s", e.Location, e.Code, e.Err)
	}
	return fmt.Sprintf("failed to read %s, %s", e.Location, e.Err)
}

func (e *StorageAccessError) Unwrap() error {
	return e.Err
}

// StorageWriteError is returned when the output cannot be written to its destination
type StorageWriteError struct {
	Destination string
	Err         error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to write %s, %s", e.Destination, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// MalformedDateError identifies the first value in a date column which could not be parsed.
// Row is the zero-based data row index (the header is not counted).
type MalformedDateError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *MalformedDateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: column '%s' has no date value", e.Row, e.Column)
	}
	return fmt.Sprintf("row %d: cannot parse '%s' in column '%s' as a date", e.Row, e.Value, e.Column)
}

func (e *MalformedDateError) Unwrap() error {
	return e.Err
}

// MissingColumnError is returned when an operation needs a column the table does not have
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column '%s' not found", e.Column)
}

// ColumnTypeError is returned when a column is present but does not hold the type an operation needs
type ColumnTypeError struct {
	Column   string
	Type     string
	Expected string
}

func (e *ColumnTypeError) Error() string {
	return fmt.Sprintf("column '%s' has type %s, expected %s", e.Column, e.Type, e.Expected)
}
