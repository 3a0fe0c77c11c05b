package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/fjod/aquago-storefront/internal/api"
	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 6

type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*domain.User, error)
	Register(ctx context.Context, req api.RegisterRequest) (*domain.User, error)
	CheckAuth(ctx context.Context) (*domain.User, error)
}

type Tokens interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Forget()
}

// Clearer wipes every persisted device slot.
type Clearer interface {
	Clear(ctx context.Context) error
}

type CartResetter interface {
	Reset()
}

// Gate holds the signed-in user.
type Gate struct {
	api    AuthAPI
	tokens Tokens
	device Clearer
	cart   CartResetter
	log    logrus.FieldLogger

	mu   sync.RWMutex
	user *domain.User
}

func NewGate(auth AuthAPI, tokens Tokens, device Clearer, cart CartResetter, log logrus.FieldLogger) *Gate {
	return &Gate{
		api:    auth,
		tokens: tokens,
		device: device,
		cart:   cart,
		log:    log.WithField("component", "session"),
	}
}

// Login accepts customer accounts only. Other roles are rejected without
// persisting their token.
func (g *Gate) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := g.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if user.Role != domain.RoleUser {
		g.log.WithField("role", string(user.Role)).Warn("login rejected for non-customer role")
		return nil, ErrNotUser
	}
	if err := g.signIn(ctx, user); err != nil {
		return nil, err
	}
	return g.Current(), nil
}

func (g *Gate) Register(ctx context.Context, email, password, confirm, name string) (*domain.User, error) {
	if err := ValidateRegistration(email, password, confirm, name); err != nil {
		return nil, err
	}
	user, err := g.api.Register(ctx, api.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	if err := g.signIn(ctx, user); err != nil {
		return nil, err
	}
	return g.Current(), nil
}

func ValidateRegistration(email, password, confirm, name string) error {
	if email == "" || password == "" || confirm == "" || name == "" {
		return &ValidationError{Err: ErrFieldsRequired}
	}
	if password != confirm {
		return &ValidationError{Err: ErrPasswordMismatch}
	}
	if len(password) < minPasswordLength {
		return &ValidationError{Err: ErrPasswordTooShort}
	}
	return nil
}

func (g *Gate) signIn(ctx context.Context, user *domain.User) error {
	if user.AccessToken == "" {
		return ErrMissingToken
	}
	if err := g.tokens.Save(ctx, user.AccessToken); err != nil {
		return err
	}
	g.setUser(user)
	g.log.WithField("user_id", user.ID).Info("signed in")
	return nil
}

// Restore validates a stored token at startup. Without a token it does
// nothing. Only a token the server rejects triggers a full Reset; any other
// failure leaves the token and cart in place and starts signed out.
func (g *Gate) Restore(ctx context.Context) (*domain.User, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		g.log.WithError(err).Warn("failed to read stored token")
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	user, err := g.api.CheckAuth(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			g.log.WithError(err).Warn("stored session rejected")
			g.Reset(ctx)
		} else {
			g.log.WithError(err).Warn("session check unavailable, keeping stored state")
		}
		return nil, fmt.Errorf("session restore failed: %w", err)
	}
	g.setUser(user)
	return g.Current(), nil
}

func (g *Gate) Logout(ctx context.Context) {
	g.Reset(ctx)
	g.log.Info("signed out")
}

// Reset wipes the device KV, the cached token, the in-memory cart and the
// signed-in user. It also serves as the api client's 401 hook.
func (g *Gate) Reset(ctx context.Context) {
	if err := g.device.Clear(ctx); err != nil {
		g.log.WithError(err).Error("failed to clear device storage")
	}
	g.tokens.Forget()
	g.cart.Reset()
	g.setUser(nil)
}

func (g *Gate) Current() *domain.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.user == nil {
		return nil
	}
	u := *g.user
	return &u
}

func (g *Gate) Authenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.user != nil
}

// UpdateUser merges profile fields returned by the server into the
// signed-in user. It is a no-op when nobody is signed in.
func (g *Gate) UpdateUser(updated domain.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return
	}
	if updated.Name != "" {
		g.user.Name = updated.Name
	}
	if updated.Email != "" {
		g.user.Email = updated.Email
	}
	if updated.Picture != nil {
		p := *updated.Picture
		g.user.Picture = &p
	}
	if !updated.UpdatedAt.IsZero() {
		g.user.UpdatedAt = updated.UpdatedAt
	}
}

func (g *Gate) setUser(u *domain.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if u == nil {
		g.user = nil
		return
	}
	c := *u
	g.user = &c
}
