package database

import "errors"

// Sentinel errors shared by all repositories. Callers distinguish expected
// lookup misses from infrastructure failures with errors.Is.
var (
	// ErrNotFound means the requested row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a concurrent writer touched the same row
	ErrConflict = errors.New("storage conflict")
)
