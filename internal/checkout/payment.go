package checkout

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/fjod/aquago-storefront/internal/domain"
)

const DefaultMerchantHost = "aquago.vercel.app"

// ReturnedToMerchant is raised when the payment page navigates back to the merchant.
type ReturnedToMerchant struct {
	OrderID string `json:"order_id"`
}

type ReturnDetector struct {
	MerchantHost string
}

// IsReturn reports whether rawURL points at the merchant host or one of its subdomains.
func (d ReturnDetector) IsReturn(rawURL string) bool {
	merchant := strings.ToLower(strings.TrimSpace(d.MerchantHost))
	if merchant == "" {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == merchant || strings.HasSuffix(host, "."+merchant)
}

type Outcome struct {
	// Returned is true once the payment page came back to the merchant;
	// the caller should route to the order list.
	Returned bool          `json:"returned"`
	Order    *domain.Order `json:"order,omitempty"`
}

type returnHandler interface {
	OnReturnedToMerchant(ctx context.Context, ev ReturnedToMerchant) *domain.Order
}

// maxReconciled bounds how many reconciled order ids a flow remembers.
const maxReconciled = 256

// PaymentFlow watches navigation inside the payment page.
type PaymentFlow struct {
	detector ReturnDetector
	handler  returnHandler

	mu         sync.Mutex
	reconciled map[string]struct{}
	order      []string
	pending    map[string]struct{}
}

func NewPaymentFlow(detector ReturnDetector, handler returnHandler) *PaymentFlow {
	return &PaymentFlow{
		detector:   detector,
		handler:    handler,
		reconciled: make(map[string]struct{}),
		pending:    make(map[string]struct{}),
	}
}

// Navigated consumes one navigation event. URLs off the merchant host are
// ignored and watching continues.
func (f *PaymentFlow) Navigated(ctx context.Context, orderID, rawURL string) Outcome {
	if !f.detector.IsReturn(rawURL) {
		return Outcome{}
	}
	return f.Return(ctx, orderID)
}

// Return re-fetches orderID until one re-fetch succeeds. Calls after that,
// or while a re-fetch is running, report the return without fetching.
func (f *PaymentFlow) Return(ctx context.Context, orderID string) Outcome {
	f.mu.Lock()
	_, done := f.reconciled[orderID]
	_, busy := f.pending[orderID]
	if done || busy {
		f.mu.Unlock()
		return Outcome{Returned: true}
	}
	f.pending[orderID] = struct{}{}
	f.mu.Unlock()

	order := f.handler.OnReturnedToMerchant(ctx, ReturnedToMerchant{OrderID: orderID})

	f.mu.Lock()
	delete(f.pending, orderID)
	if order != nil {
		f.remember(orderID)
	}
	f.mu.Unlock()

	return Outcome{Returned: true, Order: order}
}

// remember must be called with mu held. The oldest id is dropped past maxReconciled.
func (f *PaymentFlow) remember(orderID string) {
	f.reconciled[orderID] = struct{}{}
	f.order = append(f.order, orderID)
	if len(f.order) > maxReconciled {
		delete(f.reconciled, f.order[0])
		f.order = f.order[1:]
	}
}
