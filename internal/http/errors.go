package http

import (
	"errors"

	"github.com/fjod/aquago-storefront/internal/cart"
)

func isCartValidation(err error) bool {
	return errors.Is(err, cart.ErrInvalidQuantity) || errors.Is(err, cart.ErrInvalidProductID)
}
