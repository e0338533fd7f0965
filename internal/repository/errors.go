package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateSlug is returned when trying to create a store with an existing slug or name
	ErrDuplicateSlug = errors.New("store with this slug already exists")

	// ErrDuplicateToken is returned when trying to create an invitation with an existing token
	ErrDuplicateToken = errors.New("invitation with this token already exists")

	// ErrDuplicateInvitation is returned when a pending invitation already exists for an email
	ErrDuplicateInvitation = errors.New("pending invitation already exists for this email")
)
