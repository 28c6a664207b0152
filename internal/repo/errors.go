package repo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation targets an id with no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned by Create when the id is already taken.
	ErrConflict = errors.New("record already exists")
	// ErrInvalidCursor is returned by List for a cursor it did not issue.
	ErrInvalidCursor = errors.New("invalid list cursor")
)

// StorageError reports a failure of the underlying key-value backend.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
