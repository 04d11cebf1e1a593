package storage

import "errors"

// Common storage errors
var (
	// ErrPatientNotFound indicates that the row does not exist or is not visible to the caller
	ErrPatientNotFound = errors.New("patient not found")

	// ErrAccessDenied indicates that the row belongs to another owner
	ErrAccessDenied = errors.New("row belongs to another owner")

	// ErrInvalidValue indicates that a column value is not a string
	ErrInvalidValue = errors.New("invalid column value")
)
