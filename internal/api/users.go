package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fjod/aquago-storefront/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

type UpdateProfileRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Picture *string `json:"picture"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	return callOne[domain.User](ctx, c, http.MethodPost, "/login", req)
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	return callOne[domain.User](ctx, c, http.MethodPost, "/register", req)
}

// CheckAuth validates the stored token and returns its user.
func (c *Client) CheckAuth(ctx context.Context) (*domain.User, error) {
	return callOne[domain.User](ctx, c, http.MethodGet, "/user/account/auth", nil)
}

func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	return callOne[domain.User](ctx, c, http.MethodGet, "/user/account", nil)
}

// UpdateProfile may return a nil user when the backend echoes no data.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.User, error) {
	return call[*domain.User](ctx, c, http.MethodPut, "/user/account", req)
}

func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodPatch, "/user/account", req)
	return err
}

func (c *Client) GetDashboard(ctx context.Context) (*domain.Overview, error) {
	return callOne[domain.Overview](ctx, c, http.MethodGet, "/user/dashboard", nil)
}
