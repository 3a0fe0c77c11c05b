package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/catalog"
	"github.com/fjod/aquago-storefront/internal/domain"
)

// MockOrderAPI implements OrderAPI for testing
type MockOrderAPI struct {
	Created   *domain.Order
	CreateErr error
	Fetched   *domain.Order
	GetErr    error

	// Block, when set, holds CreateOrder until it is closed
	Block chan struct{}
	// OnCreate runs inside CreateOrder before it returns
	OnCreate func()

	calls    int32
	mu       sync.Mutex
	requests []api.CreateOrderRequest
	gets     []string
}

func (m *MockOrderAPI) CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*domain.Order, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.Block != nil {
		<-m.Block
	}
	if m.OnCreate != nil {
		m.OnCreate()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Created, m.CreateErr
}

func (m *MockOrderAPI) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	atomic.AddInt32(&m.calls, 1)
	m.mu.Lock()
	m.gets = append(m.gets, id)
	m.mu.Unlock()
	return m.Fetched, m.GetErr
}

func (m *MockOrderAPI) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}

// MockCart implements Cart with an in-memory line list
type MockCart struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	ClearErr error
	cleared  int
}

func (m *MockCart) Lines() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	return out
}

func (m *MockCart) Add(_ context.Context, productID string, delta int) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines[i].Quantity += delta
			return domain.Cart{Lines: m.lines}, nil
		}
	}
	m.lines = append(m.lines, domain.CartLine{ProductID: productID, Quantity: delta})
	return domain.Cart{Lines: m.lines}, nil
}

func (m *MockCart) Clear(context.Context) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	// memory is emptied even when the write fails
	m.lines = nil
	return domain.NewCart(), m.ClearErr
}

type staticQuote catalog.View

func (q staticQuote) CartView(context.Context) catalog.View { return catalog.View(q) }

// slowQuote blocks until its context ends and records whether it had a deadline
type slowQuote struct {
	hadDeadline atomic.Bool
}

func (q *slowQuote) CartView(ctx context.Context) catalog.View {
	_, ok := ctx.Deadline()
	q.hadDeadline.Store(ok)
	<-ctx.Done()
	return catalog.View{}
}
