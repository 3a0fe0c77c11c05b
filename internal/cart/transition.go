package cart

import (
	"fmt"

	"github.com/fjod/aquago-storefront/internal/domain"
)

// Action is a cart mutation understood by Apply.
type Action interface {
	isAction()
}

// Add creates a line with Delta, or adds Delta to an existing line.
type Add struct {
	ProductID string
	Delta     int
}

// Remove drops the line regardless of its quantity.
type Remove struct {
	ProductID string
}

// Decrement lowers the quantity by one, removing the line at 1.
type Decrement struct {
	ProductID string
}

type Clear struct{}

func (Add) isAction()       {}
func (Remove) isAction()    {}
func (Decrement) isAction() {}
func (Clear) isAction()     {}

// Apply returns the cart produced by a. The input cart is never modified.
// A line never ends up with quantity <= 0: such a result removes it.
func Apply(c domain.Cart, a Action) (domain.Cart, error) {
	switch act := a.(type) {
	case Add:
		return add(c, act.ProductID, act.Delta)
	case Remove:
		if act.ProductID == "" {
			return c, ErrInvalidProductID
		}
		return remove(c, act.ProductID), nil
	case Decrement:
		if act.ProductID == "" {
			return c, ErrInvalidProductID
		}
		if c.Quantity(act.ProductID) > 1 {
			return add(c, act.ProductID, -1)
		}
		return remove(c, act.ProductID), nil
	case Clear:
		return domain.NewCart(), nil
	default:
		return c, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

func add(c domain.Cart, productID string, delta int) (domain.Cart, error) {
	if productID == "" {
		return c, ErrInvalidProductID
	}

	i := c.Find(productID)
	if i < 0 {
		if delta < 1 {
			return c, ErrInvalidQuantity
		}
		next := c.Clone()
		next.Lines = append(next.Lines, domain.CartLine{ProductID: productID, Quantity: delta})
		return next, nil
	}

	quantity := c.Lines[i].Quantity + delta
	if quantity <= 0 {
		return remove(c, productID), nil
	}
	next := c.Clone()
	next.Lines[i].Quantity = quantity
	return next, nil
}

func remove(c domain.Cart, productID string) domain.Cart {
	next := domain.Cart{Lines: make([]domain.CartLine, 0, len(c.Lines))}
	for _, l := range c.Lines {
		if l.ProductID != productID {
			next.Lines = append(next.Lines, l)
		}
	}
	return next
}
