package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/aquago-storefront/internal/catalog"
	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CartStore interface {
	Cart() domain.Cart
	Add(ctx context.Context, productID string, delta int) (domain.Cart, error)
	Decrement(ctx context.Context, productID string) (domain.Cart, error)
	Remove(ctx context.Context, productID string) (domain.Cart, error)
	Clear(ctx context.Context) (domain.Cart, error)
}

type CartViewer interface {
	CartView(ctx context.Context) catalog.View
}

type CartHandler struct {
	cart    CartStore
	catalog CartViewer
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCartHandler(cart CartStore, catalog CartViewer, timeout time.Duration, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: catalog,
		timeout: timeout,
		log:     log.WithField("component", "http_cart"),
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartResponse carries the stored lines and their live-priced view. Lines
// for products missing from the catalog appear in Lines but not in Items.
type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Items []catalog.Item    `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, h.response(ctx, h.cart.Cart()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	c, err := h.cart.Add(ctx, req.ProductID, req.Quantity)
	h.respondMutation(ctx, w, http.StatusCreated, c, err)
}

func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.cart.Add(ctx, chi.URLParam(r, "product_id"), 1)
	h.respondMutation(ctx, w, http.StatusOK, c, err)
}

func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.cart.Decrement(ctx, chi.URLParam(r, "product_id"))
	h.respondMutation(ctx, w, http.StatusOK, c, err)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.cart.Remove(ctx, chi.URLParam(r, "product_id"))
	h.respondMutation(ctx, w, http.StatusOK, c, err)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.cart.Clear(ctx)
	h.respondMutation(ctx, w, http.StatusOK, c, err)
}

// respondMutation reports a failed write as an error even though the
// in-memory cart already holds the new state.
func (h *CartHandler) respondMutation(ctx context.Context, w http.ResponseWriter, status int, c domain.Cart, err error) {
	if err == nil {
		respondJSON(w, status, h.response(ctx, c))
		return
	}
	if isCartValidation(err) {
		handleError(w, err)
		return
	}
	h.log.WithError(err).WithField("request_id", getRequestID(ctx)).Error("cart persist failed")
	respondError(w, http.StatusInternalServerError, "persist_failed", "cart could not be saved")
}

func (h *CartHandler) response(ctx context.Context, c domain.Cart) CartResponse {
	view := h.catalog.CartView(ctx)
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponse{Lines: lines, Items: view.Items, Total: view.Total}
}
