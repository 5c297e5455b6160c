package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
)
