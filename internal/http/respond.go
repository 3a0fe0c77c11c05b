package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/aquago-storefront/internal/account"
	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/cart"
	"github.com/fjod/aquago-storefront/internal/checkout"
	"github.com/fjod/aquago-storefront/internal/orders"
	"github.com/fjod/aquago-storefront/internal/session"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// respondJSON encodes before writing the header so an unencodable body
// becomes a 500 rather than a truncated success.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "response could not be encoded", Code: "encode_failed"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// handleError converts service and collaborator errors to HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	var (
		checkoutErr *checkout.ValidationError
		sessionErr  *session.ValidationError
		accountErr  *account.ValidationError
	)

	switch {
	case errors.As(err, &checkoutErr):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", checkoutErr.Err.Error())
	case errors.As(err, &sessionErr):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", sessionErr.Err.Error())
	case errors.As(err, &accountErr):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", accountErr.Err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, cart.ErrInvalidProductID):
		respondError(w, http.StatusBadRequest, "invalid_product_id", err.Error())
	case errors.Is(err, orders.ErrActionNotAllowed):
		respondError(w, http.StatusConflict, "action_not_allowed", err.Error())
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", err.Error())
	case api.IsUnauthorized(err):
		respondError(w, http.StatusUnauthorized, "unauthenticated", messageOr(err, "session expired, please log in again"))
	case errors.Is(err, checkout.ErrCheckoutFailed):
		// one generic notice; the cause stays in the logs
		respondError(w, http.StatusBadGateway, "checkout_failed", "checkout failed, please try again")
	case errors.Is(err, session.ErrNotUser):
		respondError(w, http.StatusForbidden, "not_user", err.Error())
	case api.IsNetwork(err):
		respondError(w, http.StatusBadGateway, "upstream_unavailable", "backend unavailable")
	case api.StatusCode(err) == http.StatusNotFound:
		respondError(w, http.StatusNotFound, "not_found", api.Message(err))
	case api.StatusCode(err) >= 400 && api.StatusCode(err) < 500:
		respondError(w, api.StatusCode(err), "rejected", api.Message(err))
	case api.StatusCode(err) >= 500:
		respondErrorDetails(w, http.StatusBadGateway, "upstream_error", "backend error", api.Message(err))
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func messageOr(err error, fallback string) string {
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return fallback
}
