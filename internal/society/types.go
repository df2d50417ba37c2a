package society

import "errors"

var (
	// ErrNotFound is returned when a member or event does not exist in the society.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when required input is missing.
	ErrInvalid = errors.New("invalid input")
)
