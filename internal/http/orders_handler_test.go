package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/fjod/aquago-storefront/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrders_ListWithActions(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()
	u := "https://pay/o1"
	env.orders.orders["o1"] = &domain.Order{ID: "o1", Status: domain.OrderStatusPending, RedirectURL: &u}

	resp := env.do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "o1", list[0]["id"])
	assert.Equal(t, "Pending", list[0]["status"])
	assert.Equal(t, false, list[0]["terminal"])
	assert.ElementsMatch(t, []any{"cancel", "pay"}, list[0]["allowedActions"])
}

func TestOrders_Cancel(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()
	env.orders.orders["o1"] = &domain.Order{ID: "o1", Status: domain.OrderStatusPending}

	resp := env.do(t, http.MethodPost, "/api/v1/orders/o1/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Dibatalkan", body["status"])
	assert.Equal(t, true, body["terminal"])
}

func TestOrders_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not allowed", fmt.Errorf("%w: cancel Dikirim", orders.ErrActionNotAllowed), http.StatusConflict},
		{"unauthorized", fmt.Errorf("wrap: %w", &api.Error{StatusCode: 401, Message: "jwt expired"}), http.StatusUnauthorized},
		{"network", fmt.Errorf("%w: dial tcp", api.ErrNetwork), http.StatusBadGateway},
		{"not found", &api.Error{StatusCode: 404, Message: "order not found"}, http.StatusNotFound},
		{"server error", &api.Error{StatusCode: 500, Message: "boom"}, http.StatusBadGateway},
		{"rejected", &api.Error{StatusCode: 400, Message: "bad"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.signIn()
			env.orders.err = tt.err

			resp := env.do(t, http.MethodPost, "/api/v1/orders/o1/cancel", nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestOrders_PaymentURL(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()
	u := "https://pay/o1"
	env.orders.orders["o1"] = &domain.Order{ID: "o1", Status: domain.OrderStatusPending, RedirectURL: &u}

	resp := env.do(t, http.MethodGet, "/api/v1/orders/o1/payment", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, u, body["redirectUrl"])
}
