package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/aquago-storefront/internal/domain"
)

type SessionGate interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, email, password, confirm, name string) (*domain.User, error)
	Logout(ctx context.Context)
	Current() *domain.User
}

type SessionHandler struct {
	gate    SessionGate
	timeout time.Duration
}

func NewSessionHandler(gate SessionGate, timeout time.Duration) *SessionHandler {
	return &SessionHandler{gate: gate, timeout: timeout}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
}

type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

// newSessionResponse never exposes the access token.
func newSessionResponse(u *domain.User) SessionResponse {
	if u == nil {
		return SessionResponse{}
	}
	c := *u
	c.AccessToken = ""
	return SessionResponse{Authenticated: true, User: &c}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.gate.Login(ctx, req.Email, req.Password)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(user))
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.gate.Register(ctx, req.Email, req.Password, req.ConfirmPassword, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newSessionResponse(user))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.gate.Logout(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newSessionResponse(h.gate.Current()))
}
