package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/aquago-storefront/internal/checkout"
	"github.com/fjod/aquago-storefront/internal/domain"
)

type Checkouter interface {
	Checkout(ctx context.Context, req checkout.Request) (*checkout.Result, error)
}

type NavigationWatcher interface {
	Navigated(ctx context.Context, orderID, rawURL string) checkout.Outcome
}

type CheckoutHandler struct {
	checkout Checkouter
	payments NavigationWatcher
	timeout  time.Duration
}

func NewCheckoutHandler(checkout Checkouter, payments NavigationWatcher, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		payments: payments,
		timeout:  timeout,
	}
}

// CheckoutRequestDTO leaves coordinates nil until a location is picked.
type CheckoutRequestDTO struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

type NavigationRequestDTO struct {
	OrderID string `json:"order_id"`
	URL     string `json:"url"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var dto CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req := checkout.Request{Address: dto.Address}
	if dto.Latitude != nil && dto.Longitude != nil {
		req.Coordinates = &domain.Coordinates{Latitude: *dto.Latitude, Longitude: *dto.Longitude}
	}

	result, err := h.checkout.Checkout(ctx, req)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *CheckoutHandler) Navigated(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var dto NavigationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(dto.OrderID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id is required")
		return
	}

	respondJSON(w, http.StatusOK, h.payments.Navigated(ctx, dto.OrderID, dto.URL))
}
