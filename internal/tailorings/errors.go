package tailorings

import "errors"

var (
	// ErrNotFound indicates a record that does not exist for the caller.
	// Records owned by other users deliberately report the same error.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyTailored indicates the tailored result was already written.
	ErrAlreadyTailored = errors.New("tailored result already set")
)
