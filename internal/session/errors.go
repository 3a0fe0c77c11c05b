package session

import "errors"

var (
	ErrNotUser          = errors.New("account is not a customer account")
	ErrFieldsRequired   = errors.New("all fields are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrMissingToken     = errors.New("server returned no access token")
)

// ValidationError is returned for input rejected before any request is sent.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }
