package checkout

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/catalog"
	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultSubmitTimeout bounds order creation and the cart clear after it.
	DefaultSubmitTimeout = api.DefaultTimeout
	// DefaultQuoteTimeout bounds the best-effort catalog quote.
	DefaultQuoteTimeout = 5 * time.Second
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

type Cart interface {
	Lines() []domain.CartLine
	Add(ctx context.Context, productID string, delta int) (domain.Cart, error)
	Clear(ctx context.Context) (domain.Cart, error)
}

// Quoter prices the current cart against the live catalog.
type Quoter interface {
	CartView(ctx context.Context) catalog.View
}

type Result struct {
	Order           *domain.Order   `json:"order"`
	PaymentRequired bool            `json:"paymentRequired"`
	RedirectURL     string          `json:"redirectUrl,omitempty"`
	QuotedTotal     decimal.Decimal `json:"quotedTotal"`
	TotalMismatch   bool            `json:"totalMismatch"`
}

type Service struct {
	orders OrderAPI
	cart   Cart
	quoter Quoter
	log    logrus.FieldLogger

	submitTimeout time.Duration
	quoteTimeout  time.Duration

	inFlight atomic.Bool
}

func NewService(orders OrderAPI, cart Cart, quoter Quoter, log logrus.FieldLogger) *Service {
	return &Service{
		orders: orders,
		cart:   cart,
		quoter: quoter,
		log:    log.WithField("component", "checkout"),

		submitTimeout: DefaultSubmitTimeout,
		quoteTimeout:  DefaultQuoteTimeout,
	}
}

// WithTimeouts overrides the submission and quote budgets. Zero keeps the default.
func (s *Service) WithTimeouts(submit, quote time.Duration) *Service {
	if submit > 0 {
		s.submitTimeout = submit
	}
	if quote > 0 {
		s.quoteTimeout = quote
	}
	return s
}

// Checkout turns the cart into one server-side order.
//
// Validation failures return a *ValidationError without any request. A failed
// submission leaves the cart as it was and is not retried. Once the order
// exists the cart is cleared; a failure to clear is logged and the order is
// still returned.
//
// Submission and the clear ignore cancellation of ctx and are bounded by the
// submit timeout instead.
func (s *Service) Checkout(ctx context.Context, req Request) (*Result, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInProgress
	}
	defer s.inFlight.Store(false)

	lines := s.cart.Lines()
	if err := Validate(req, lines); err != nil {
		return nil, err
	}

	quote := s.quote(ctx, lines)

	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.submitTimeout)
	defer cancel()

	order, err := s.orders.CreateOrder(submitCtx, orderRequest(req, lines))
	if err != nil {
		s.log.WithError(err).Error("order submission failed")
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	log := s.log.WithField("order_id", order.ID)
	if _, err := s.cart.Clear(submitCtx); err != nil {
		log.WithError(err).Error("failed to clear cart after checkout")
	}

	result := &Result{
		Order:       order,
		RedirectURL: order.PaymentURL(),
	}
	result.PaymentRequired = result.RedirectURL != ""

	if quote != nil {
		result.QuotedTotal = *quote
		if !quote.Equal(order.Total) {
			result.TotalMismatch = true
			log.WithFields(logrus.Fields{
				"quoted_total": quote.String(),
				"order_total":  order.Total.String(),
			}).Warn("order total differs from cart quote")
		}
	}

	log.WithField("payment_required", result.PaymentRequired).Info("checkout completed")
	return result, nil
}

// quote returns nil when some cart line could not be priced, so a partial
// catalog is never compared against the server total.
func (s *Service) quote(ctx context.Context, lines []domain.CartLine) *decimal.Decimal {
	if s.quoter == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.quoteTimeout)
	defer cancel()
	view := s.quoter.CartView(ctx)
	if len(view.Items) != len(lines) {
		return nil
	}
	return &view.Total
}

// BuyNow adds the product to the cart. The caller proceeds to Checkout with
// the resulting cart.
func (s *Service) BuyNow(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	return s.cart.Add(ctx, productID, quantity)
}

// OnReturnedToMerchant re-reads the order after the payment page hands
// control back. Errors are logged and yield a nil order.
func (s *Service) OnReturnedToMerchant(ctx context.Context, ev ReturnedToMerchant) *domain.Order {
	log := s.log.WithField("order_id", ev.OrderID)

	order, err := s.orders.GetOrder(ctx, ev.OrderID)
	if err != nil {
		log.WithError(err).Warn("failed to refresh order after payment return")
		return nil
	}
	log.WithField("status", order.Status.String()).Info("order refreshed after payment return")
	return order
}
