package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductCatalog interface {
	Products(ctx context.Context) []domain.Product
	Product(ctx context.Context, id string) (*domain.Product, error)
}

type BuyNower interface {
	BuyNow(ctx context.Context, productID string, quantity int) (domain.Cart, error)
}

type ProductHandler struct {
	catalog ProductCatalog
	buyer   BuyNower
	cart    *CartHandler
	timeout time.Duration
}

func NewProductHandler(catalog ProductCatalog, buyer BuyNower, cart *CartHandler, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		buyer:   buyer,
		cart:    cart,
		timeout: timeout,
	}
}

type BuyNowRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, h.catalog.Products(ctx))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.Product(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// BuyNow puts the product in the cart; the client continues to checkout.
// An empty body buys one.
func (h *ProductHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	req := BuyNowRequestDTO{Quantity: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	c, err := h.buyer.BuyNow(ctx, chi.URLParam(r, "id"), req.Quantity)
	h.cart.respondMutation(ctx, w, http.StatusCreated, c, err)
}
