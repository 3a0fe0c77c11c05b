package cart

import "errors"

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1 for a new cart line")
	ErrInvalidProductID = errors.New("product id is required")
	ErrUnknownAction    = errors.New("unknown cart action")
)
