package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP statuses with errors.Is; anything else is a 500.
var (
	// ErrNotFound indicates a missing user or puzzle.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a duplicate registration.
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized indicates bad login credentials. Handlers report it
	// generically so callers cannot probe which emails are registered.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrIncorrectAnswer is a reported rejection of a wrong submission,
	// not a system fault.
	ErrIncorrectAnswer = errors.New("incorrect answer")

	// ErrInvalidResetToken covers unknown, expired and already-used
	// password reset tokens alike.
	ErrInvalidResetToken = errors.New("password reset token is invalid or has expired")
)
