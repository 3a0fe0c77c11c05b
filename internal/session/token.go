package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/aquago-storefront/internal/storage"
)

const DefaultTokenKey = "ACCESS_TOKEN"

// TokenStore keeps the access token in the device KV and caches it in memory.
type TokenStore struct {
	kv  storage.KV
	key string

	mu     sync.RWMutex
	token  string
	loaded bool
}

func NewTokenStore(kv storage.KV, key string) *TokenStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &TokenStore{kv: kv, key: key}
}

// Token returns the stored token, or "" when there is none.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.token, nil
	}

	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.token, s.loaded = "", true
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read access token: %w", err)
	}
	s.token, s.loaded = string(raw), true
	return s.token, nil
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, s.key, []byte(token)); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	s.token, s.loaded = token, true
	return nil
}

// Forget drops the cached token. The KV slot is cleared separately.
func (s *TokenStore) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.loaded = "", true
}
