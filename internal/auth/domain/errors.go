package domain

import "errors"

// All of these are recoverable: callers surface the message and let the
// user retry. None of them should abort the process.
var (
	ErrAccountNotFound  = errors.New("no account registered for this email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrEmailTaken       = errors.New("email already registered")
	ErrEmailNotFound    = errors.New("email not found")
	ErrNotAuthenticated = errors.New("not authenticated")

	ErrDuplicateEmail = errors.New("account with this email already exists")
	ErrNotFound       = errors.New("account not found")

	ErrTooManyAttempts = errors.New("too many login attempts, try again later")
)
