package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fjod/aquago-storefront/internal/account"
	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/cart"
	"github.com/fjod/aquago-storefront/internal/catalog"
	"github.com/fjod/aquago-storefront/internal/checkout"
	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/fjod/aquago-storefront/internal/storage"
	"github.com/sirupsen/logrus/hooks/test"
)

type staticCatalog struct {
	products []domain.Product
	lines    func() []domain.CartLine
	err      error
}

func (s *staticCatalog) Products(context.Context) []domain.Product { return s.products }

func (s *staticCatalog) Product(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &api.Error{StatusCode: http.StatusNotFound, Message: "product not found"}
}

func (s *staticCatalog) CartView(context.Context) catalog.View {
	return catalog.Join(s.products, s.lines())
}

type fakeCheckout struct {
	mu      sync.Mutex
	result  *checkout.Result
	err     error
	request *checkout.Request
	cart    *cart.Store
}

func (f *fakeCheckout) Checkout(_ context.Context, req checkout.Request) (*checkout.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.request = &req
	return f.result, f.err
}

func (f *fakeCheckout) BuyNow(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	return f.cart.Add(ctx, productID, quantity)
}

type fakeNavigation struct {
	outcome checkout.Outcome
	calls   []string
}

func (f *fakeNavigation) Navigated(_ context.Context, orderID, rawURL string) checkout.Outcome {
	f.calls = append(f.calls, orderID+" "+rawURL)
	return f.outcome
}

type fakeOrders struct {
	orders map[string]*domain.Order
	err    error
}

func (f *fakeOrders) List(context.Context) []domain.Order {
	out := []domain.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out
}

func (f *fakeOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orders[id], nil
}

func (f *fakeOrders) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	o := *f.orders[id]
	o.Status = domain.OrderStatusCancelled
	return &o, nil
}

func (f *fakeOrders) Complete(ctx context.Context, id string) (*domain.Order, error) {
	return f.Get(ctx, id)
}

func (f *fakeOrders) PaymentURL(ctx context.Context, id string) (string, error) {
	o, err := f.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return o.PaymentURL(), nil
}

type fakeGate struct {
	user *domain.User
	err  error
}

func (f *fakeGate) Login(context.Context, string, string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeGate) Register(context.Context, string, string, string, string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeGate) Logout(context.Context) { f.user = nil }

func (f *fakeGate) Current() *domain.User { return f.user }

func (f *fakeGate) Authenticated() bool { return f.user != nil }

type fakeAccount struct {
	user     *domain.User
	overview domain.Overview
	err      error
	uploaded string
}

func (f *fakeAccount) Profile(context.Context) (*domain.User, error) { return f.user, f.err }

func (f *fakeAccount) Dashboard(context.Context) domain.Overview { return f.overview }

func (f *fakeAccount) UpdateProfile(_ context.Context, u account.ProfileUpdate) (*domain.User, error) {
	return nil, f.err
}

func (f *fakeAccount) ChangePassword(_ context.Context, c account.PasswordChange) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return f.err
}

func (f *fakeAccount) UploadImage(_ context.Context, filename string, file io.Reader) (string, error) {
	b, _ := io.ReadAll(file)
	f.uploaded = filename + ":" + string(b)
	return "https://cdn/" + filename, f.err
}

type testEnv struct {
	server   *httptest.Server
	cart     *cart.Store
	catalog  *staticCatalog
	checkout *fakeCheckout
	payments *fakeNavigation
	orders   *fakeOrders
	gate     *fakeGate
	account  *fakeAccount
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()

	store := cart.NewStore(storage.NewMemoryStore(), "", logger)
	env := &testEnv{
		cart:     store,
		catalog:  &staticCatalog{lines: store.Lines},
		checkout: &fakeCheckout{cart: store},
		payments: &fakeNavigation{},
		orders:   &fakeOrders{orders: map[string]*domain.Order{}},
		gate:     &fakeGate{},
		account:  &fakeAccount{},
	}

	const timeout = 5 * time.Second
	cartHandler := NewCartHandler(store, env.catalog, timeout, logger)
	handler := NewRouter(Handlers{
		Cart:     cartHandler,
		Products: NewProductHandler(env.catalog, env.checkout, cartHandler, timeout),
		Checkout: NewCheckoutHandler(env.checkout, env.payments, timeout),
		Orders:   NewOrdersHandler(env.orders, timeout),
		Session:  NewSessionHandler(env.gate, timeout),
		Account:  NewAccountHandler(env.account, env.gate, timeout),
		Auth:     env.gate,
	}, timeout, logger)

	env.server = httptest.NewServer(handler)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) signIn() {
	e.gate.user = &domain.User{ID: "u1", Name: "Budi", Role: domain.RoleUser, AccessToken: "secret"}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
