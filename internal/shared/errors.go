package shared

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or reference constraint was violated.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable indicates the storage layer could not be reached.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrInvalidInput indicates the caller supplied an unusable value.
	ErrInvalidInput = errors.New("invalid input")
)
