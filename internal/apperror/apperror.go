// Package apperror defines the typed failures surfaced by the webhook pipeline.
package apperror

import "errors"

// ValidationError reports a malformed or incomplete inbound payload.
// Hint, when set, names the accepted format and is surfaced to the caller.
type ValidationError struct {
	Message string
	Hint    string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidation creates a ValidationError without a format hint.
func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NewValidationWithHint creates a ValidationError carrying a format hint.
func NewValidationWithHint(msg, hint string) *ValidationError {
	return &ValidationError{Message: msg, Hint: hint}
}

// AuthenticationError reports a failed webhook signature check.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// NewAuthentication creates an AuthenticationError.
func NewAuthentication(msg string) *AuthenticationError {
	return &AuthenticationError{Message: msg}
}

// AsValidation returns the ValidationError in err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsAuthentication reports whether err's chain contains an AuthenticationError.
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
