package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found or not visible to the caller
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate slug)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when no authenticated user is present
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller may not act on the requested agency
	ErrForbidden = errors.New("access to agency denied")

	// ErrAgencyRequired is returned when a cross-agency caller writes without naming an agency
	ErrAgencyRequired = errors.New("agency must be specified")
)
