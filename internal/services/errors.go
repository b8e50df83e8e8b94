package services

import "errors"

// Sentinel errors shared by the services. Handlers map these to HTTP
// statuses with errors.Is; the texts double as response messages.
var (
	// ErrInvalidToken covers every authentication failure: bad signature,
	// expiry, missing subject, or no matching user. Callers are told only
	// that the token was invalid or expired.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrNotPermitted is returned when a valid identity lacks the rights
	// for the requested action.
	ErrNotPermitted = errors.New("action not permitted")

	// ErrNotFound is returned when an order or item lookup matches no
	// live record.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned on signin failure without
	// revealing whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a rejected request payload (bad email format,
// weak password, duplicate email).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}
