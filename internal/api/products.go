package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fjod/aquago-storefront/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := call[[]domain.Product](ctx, c, http.MethodGet, "/user/products", nil)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return callOne[domain.Product](ctx, c, http.MethodGet, "/user/products/"+url.PathEscape(id), nil)
}
