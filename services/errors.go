package services

import "errors"

// Sentinel domain errors. Services wrap these with context via fmt.Errorf
// and %w; handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)
