package records

import "errors"

var (
	// ErrNotFound indicates the record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidInput indicates missing or malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden indicates the caller does not own the record.
	ErrForbidden = errors.New("not record owner")
)
