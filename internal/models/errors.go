package models

import "errors"

// Error taxonomy shared by both services. Store and service code wrap these
// with %w; handlers translate them to HTTP statuses at the request boundary.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
)
