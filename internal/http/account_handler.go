package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/fjod/aquago-storefront/internal/account"
	"github.com/fjod/aquago-storefront/internal/domain"
)

const maxImageSize = 5 << 20

type AccountService interface {
	Profile(ctx context.Context) (*domain.User, error)
	Dashboard(ctx context.Context) domain.Overview
	UpdateProfile(ctx context.Context, update account.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, change account.PasswordChange) error
	UploadImage(ctx context.Context, filename string, file io.Reader) (string, error)
}

type AccountHandler struct {
	account AccountService
	session SessionGate
	timeout time.Duration
}

func NewAccountHandler(account AccountService, session SessionGate, timeout time.Duration) *AccountHandler {
	return &AccountHandler{account: account, session: session, timeout: timeout}
}

func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.account.Profile(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(user).User)
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req account.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := h.account.UpdateProfile(ctx, req); err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(h.session.Current()).User)
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req account.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.account.ChangePassword(ctx, req); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, h.account.Dashboard(ctx))
}

func (h *AccountHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "multipart field image is required")
		return
	}
	defer file.Close()

	url, err := h.account.UploadImage(ctx, header.Filename, file)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"secure_url": url})
}
