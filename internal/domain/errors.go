package domain

import "errors"

// Error kinds returned by services and repositories. Handlers map these to
// HTTP status codes in one place; callers check them with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict with current state")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidState         = errors.New("invalid state transition")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTimeout              = errors.New("storage commit deadline exceeded")
)
