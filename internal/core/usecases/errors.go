package usecases

import "errors"

// Sentinel errors for the HTTP layer to map onto status codes.
// Anything not wrapping one of these is treated as an upstream failure (500).
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
)
