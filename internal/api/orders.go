package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fjod/aquago-storefront/internal/domain"
)

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest never carries prices; the backend prices the order.
type CreateOrderRequest struct {
	Latitude   float64            `json:"latitude"`
	Longitude  float64            `json:"longitude"`
	Location   string             `json:"location"`
	OrderItems []OrderItemRequest `json:"orderItems"`
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := call[[]domain.Order](ctx, c, http.MethodGet, "/user/orders", nil)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return callOne[domain.Order](ctx, c, http.MethodGet, orderPath(id), nil)
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	return callOne[domain.Order](ctx, c, http.MethodPost, "/user/orders", req)
}

func (c *Client) MarkOrderCompleted(ctx context.Context, id string) (*domain.Order, error) {
	return call[*domain.Order](ctx, c, http.MethodPatch, orderPath(id), nil)
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	return call[*domain.Order](ctx, c, http.MethodDelete, orderPath(id), nil)
}

func orderPath(id string) string {
	return "/user/orders/" + url.PathEscape(id)
}
