package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/fjod/aquago-storefront/internal/domain"
	"github.com/fjod/aquago-storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_LoginHidesToken(t *testing.T) {
	env := newTestEnv(t)
	env.gate.user = &domain.User{ID: "u1", Role: domain.RoleUser, AccessToken: "secret"}

	resp := env.do(t, http.MethodPost, "/api/v1/session/login", strings.NewReader(`{"email":"a@b.c","password":"123456"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["authenticated"])
	user := body["user"].(map[string]any)
	assert.NotContains(t, user, "accessToken")
}

func TestSession_LoginRejected(t *testing.T) {
	env := newTestEnv(t)
	env.gate.err = session.ErrNotUser

	resp := env.do(t, http.MethodPost, "/api/v1/session/login", strings.NewReader(`{"email":"a@b.c","password":"123456"}`))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSession_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	env.gate.err = &session.ValidationError{Err: session.ErrPasswordMismatch}

	resp := env.do(t, http.MethodPost, "/api/v1/session/register", strings.NewReader(`{"email":"a@b.c"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, session.ErrPasswordMismatch.Error(), errResp.Error)
}

func TestSession_LogoutAndStatus(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	resp := env.do(t, http.MethodGet, "/api/v1/session", nil)
	var body SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Authenticated)

	resp = env.do(t, http.MethodPost, "/api/v1/session/logout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/session", nil)
	body = SessionResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Authenticated)
	assert.Nil(t, body.User)
}

func TestAccount_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/account", "/api/v1/account/dashboard", "/api/v1/orders"} {
		resp := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestAccount_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()
	env.account.overview = domain.Overview{PendingOrders: 1, CompletedOrders: 4, WaitingOrders: 2}

	resp := env.do(t, http.MethodGet, "/api/v1/account/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var o domain.Overview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&o))
	assert.Equal(t, env.account.overview, o)
}

func TestAccount_ChangePasswordValidation(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	resp := env.do(t, http.MethodPost, "/api/v1/account/password", strings.NewReader(`{"old_password":"a","new_password":"b","confirm_password":"c"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/account/password", strings.NewReader(`{"old_password":"a","new_password":"b","confirm_password":"b"}`))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAccount_UploadImage(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "profile.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/account/image", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "https://cdn/profile.jpg", body["secure_url"])
	assert.Equal(t, "profile.jpg:jpeg-bytes", env.account.uploaded)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
