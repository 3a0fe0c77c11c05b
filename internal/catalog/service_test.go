package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProducts struct {
	products []domain.Product
	err      error
	delay    time.Duration
	calls    int32
}

func (m *mockProducts) ListProducts(context.Context) ([]domain.Product, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProducts) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errors.New("not found")
}

type staticCart []domain.CartLine

func (s staticCart) Lines() []domain.CartLine { return s }

func newTestService(p *mockProducts, lines []domain.CartLine) *Service {
	logger, _ := test.NewNullLogger()
	return NewService(p, staticCart(lines), logger)
}

func TestCartView_JoinsFreshCatalog(t *testing.T) {
	p := &mockProducts{products: []domain.Product{product("p1", "5000")}}
	svc := newTestService(p, []domain.CartLine{{ProductID: "p1", Quantity: 4}})

	view := svc.CartView(context.Background())
	require.Len(t, view.Items, 1)
	assert.True(t, decimal.NewFromInt(20000).Equal(view.Total))

	// prices are read on every load
	p.products = []domain.Product{product("p1", "6000")}
	view = svc.CartView(context.Background())
	assert.True(t, decimal.NewFromInt(24000).Equal(view.Total))
}

func TestCartView_FetchFailureDegradesToEmpty(t *testing.T) {
	p := &mockProducts{err: errors.New("network down")}
	svc := newTestService(p, []domain.CartLine{{ProductID: "p1", Quantity: 1}})

	view := svc.CartView(context.Background())
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestProducts_ConcurrentLoadsShareOneFetch(t *testing.T) {
	p := &mockProducts{products: []domain.Product{product("p1", "1")}, delay: 50 * time.Millisecond}
	svc := newTestService(p, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, svc.Products(context.Background()), 1)
		}()
	}
	wg.Wait()

	assert.Less(t, atomic.LoadInt32(&p.calls), int32(10))
}
