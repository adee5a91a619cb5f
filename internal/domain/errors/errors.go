package errors

import "errors"

// Sentinel errors for transports to map to status codes.
var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnauthorized        = errors.New("unauthorized")
)
