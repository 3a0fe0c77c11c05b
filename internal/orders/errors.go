package orders

import "errors"

var ErrActionNotAllowed = errors.New("action not allowed for order status")
