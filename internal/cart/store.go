package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/fjod/aquago-storefront/internal/storage"
	"github.com/sirupsen/logrus"
)

const DefaultKey = "CART_ITEMS"

// Store owns the device cart. Reads always see the latest write.
//
// Every mutation installs the new cart in memory and then writes the whole
// cart to the KV slot before returning. The lock is held across both steps so
// calls apply in order and the last write per product wins.
type Store struct {
	mu   sync.Mutex
	cart domain.Cart

	kv  storage.KV
	key string
	log logrus.FieldLogger
}

func NewStore(kv storage.KV, key string, log logrus.FieldLogger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		cart: domain.NewCart(),
		kv:   kv,
		key:  key,
		log:  log.WithField("component", "cart"),
	}
}

// Load restores the persisted cart. Missing or unreadable state yields an empty cart.
func (s *Store) Load(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = s.read(ctx)
	return s.cart.Clone()
}

func (s *Store) read(ctx context.Context) domain.Cart {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).Warn("cart read failed, starting empty")
		}
		return domain.NewCart()
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		s.log.WithError(err).Warn("persisted cart is corrupt, starting empty")
		return domain.NewCart()
	}
	c := domain.Cart{Lines: lines}
	if c.Lines == nil {
		c.Lines = []domain.CartLine{}
	}
	if !c.Valid() {
		s.log.Warn("persisted cart has invalid lines, starting empty")
		return domain.NewCart()
	}
	return c
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Store) Lines() []domain.CartLine {
	return s.Cart().Lines
}

func (s *Store) Add(ctx context.Context, productID string, delta int) (domain.Cart, error) {
	return s.Dispatch(ctx, Add{ProductID: productID, Delta: delta})
}

func (s *Store) Remove(ctx context.Context, productID string) (domain.Cart, error) {
	return s.Dispatch(ctx, Remove{ProductID: productID})
}

func (s *Store) Decrement(ctx context.Context, productID string) (domain.Cart, error) {
	return s.Dispatch(ctx, Decrement{ProductID: productID})
}

func (s *Store) Clear(ctx context.Context) (domain.Cart, error) {
	return s.Dispatch(ctx, Clear{})
}

// Dispatch applies a and persists the result. A rejected action changes nothing.
// A persist failure is returned, but the in-memory cart keeps the new state.
func (s *Store) Dispatch(ctx context.Context, a Action) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Apply(s.cart, a)
	if err != nil {
		return s.cart.Clone(), err
	}
	s.cart = next

	if err := s.persist(ctx, next); err != nil {
		s.log.WithError(err).Error("cart persist failed")
		return next.Clone(), err
	}
	return next.Clone(), nil
}

// Reset empties the in-memory cart without touching storage. Used after the
// session layer has already wiped the KV.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = domain.NewCart()
}

func (s *Store) persist(ctx context.Context, c domain.Cart) error {
	data, err := json.Marshal(c.Lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist cart failed: %w", err)
	}
	return nil
}
