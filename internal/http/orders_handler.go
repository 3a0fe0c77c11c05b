package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	List(ctx context.Context) []domain.Order
	Get(ctx context.Context, id string) (*domain.Order, error)
	Cancel(ctx context.Context, id string) (*domain.Order, error)
	Complete(ctx context.Context, id string) (*domain.Order, error)
	PaymentURL(ctx context.Context, id string) (string, error)
}

type OrdersHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewOrdersHandler(orders OrderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{orders: orders, timeout: timeout}
}

// OrderResponse adds the state machine view to the server order.
type OrderResponse struct {
	*domain.Order
	StatusLabel    string          `json:"statusLabel"`
	Terminal       bool            `json:"terminal"`
	AllowedActions []domain.Action `json:"allowedActions"`
}

func newOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		Order:          o,
		StatusLabel:    o.Status.Label(),
		Terminal:       o.Status.IsTerminal(),
		AllowedActions: domain.AllowedActions(*o),
	}
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	list := h.orders.List(ctx)
	resp := make([]OrderResponse, 0, len(list))
	for i := range list {
		resp = append(resp, newOrderResponse(&list[i]))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *OrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Cancel)
}

func (h *OrdersHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Complete)
}

func (h *OrdersHandler) PaymentURL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	u, err := h.orders.PaymentURL(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirectUrl": u})
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request, do func(context.Context, string) (*domain.Order, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := do(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderResponse(order))
}
