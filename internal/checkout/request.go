package checkout

import (
	"strings"

	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/domain"
)

type Request struct {
	Coordinates *domain.Coordinates
	Address     string
}

// Validate checks the request against the cart contents. It never touches the network.
func Validate(req Request, lines []domain.CartLine) error {
	if req.Coordinates == nil {
		return &ValidationError{Err: ErrLocationRequired}
	}
	if strings.TrimSpace(req.Address) == "" {
		return &ValidationError{Err: ErrAddressRequired}
	}
	if len(lines) == 0 {
		return &ValidationError{Err: ErrEmptyCart}
	}
	return nil
}

// orderRequest snapshots the cart. Prices are left to the server.
func orderRequest(req Request, lines []domain.CartLine) api.CreateOrderRequest {
	items := make([]api.OrderItemRequest, 0, len(lines))
	for _, l := range lines {
		items = append(items, api.OrderItemRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return api.CreateOrderRequest{
		Latitude:   req.Coordinates.Latitude,
		Longitude:  req.Coordinates.Longitude,
		Location:   strings.TrimSpace(req.Address),
		OrderItems: items,
	}
}
