package checkout

import "errors"

var (
	ErrLocationRequired   = errors.New("delivery location is required")
	ErrAddressRequired    = errors.New("delivery address is required")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutFailed     = errors.New("checkout failed")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// ValidationError is returned for input rejected before any request is sent.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }
