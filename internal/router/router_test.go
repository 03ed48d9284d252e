package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GautamRaj-1200/legal-blogs/internal/config"
	"github.com/GautamRaj-1200/legal-blogs/internal/handler"
	"github.com/GautamRaj-1200/legal-blogs/internal/model"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
)

type noopNotifier struct{}

func (noopNotifier) Send(context.Context, string, string, string, string) error { return nil }

type server struct {
	e     *echo.Echo
	users *repository.MemoryUserStore
}

func newServer(t *testing.T) *server {
	t.Helper()
	cfg := config.Config{
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		AccessTTL:          15 * time.Minute,
		RefreshTTL:         24 * time.Hour,
		RefreshedAccessTTL: 30 * time.Second,
		OTPTTL:             10 * time.Minute,
		BcryptCost:         bcrypt.MinCost,
	}
	users := repository.NewMemoryUserStore()
	posts := repository.NewMemoryPostStore()

	e := echo.New()
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, users, noopNotifier{}), users, cfg)
	RegisterPosts(e, handler.NewPostHandler(posts), users, cfg, config.CacheConfig{}, nil)
	RegisterUsers(e, handler.NewUserHandler(users), users, cfg, config.CacheConfig{}, nil)
	return &server{e: e, users: users}
}

func (s *server) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func sessionCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Value != "" {
			out = append(out, &http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	return out
}

// register+verify+login through the HTTP surface, returning live cookies.
func (s *server) openSession(t *testing.T, username, email string) []*http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/users", map[string]string{
		"username": username, "email": email, "password": "Secret1",
		"firstName": "A", "lastName": "B",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	u, err := s.users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	rec = s.do(t, http.MethodPost, "/api/v1/auth/otp-verifications", map[string]string{
		"email": email, "otp": u.EmailOTP,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/sessions", map[string]string{
		"username": username, "password": "Secret1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return sessionCookies(rec)
}

func TestHealthz(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	s := newServer(t)
	cookies := s.openSession(t, "alice", "a@x.com")
	require.Len(t, cookies, 2)

	// access token admits the protected /users/me route
	rec := s.do(t, http.MethodGet, "/api/v1/users/me", nil, cookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	// refresh issues a new access token while the session is live
	rec = s.do(t, http.MethodPost, "/api/v1/auth/tokens", nil, cookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	// logout, then the old refresh token is rejected
	rec = s.do(t, http.MethodDelete, "/api/v1/auth/sessions", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/auth/tokens", nil, cookies)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	s := newServer(t)
	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodDelete, "/api/v1/posts/1"},
		{http.MethodPatch, "/api/v1/users/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAssignRolesRequiresAdmin(t *testing.T) {
	s := newServer(t)
	cookies := s.openSession(t, "alice", "a@x.com")

	// non-admin caller is stopped by the role gate
	rec := s.do(t, http.MethodPost, "/api/v1/auth/roles/1",
		map[string]any{"roles": []string{"author"}}, cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// promote alice directly in the store, re-login for fresh claims
	u, err := s.users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	u.Roles = []string{model.RoleAdmin}
	_, err = s.users.Update(context.Background(), u)
	require.NoError(t, err)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/sessions", map[string]string{
		"username": "alice", "password": "Secret1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	adminCookies := sessionCookies(rec)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/roles/1",
		map[string]any{"roles": []string{"admin", "author"}}, adminCookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	// unknown role is rejected even for an admin
	rec = s.do(t, http.MethodPost, "/api/v1/auth/roles/1",
		map[string]any{"roles": []string{"superuser"}}, adminCookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostOwnershipOverHTTP(t *testing.T) {
	s := newServer(t)
	alice := s.openSession(t, "alice", "a@x.com")
	bob := s.openSession(t, "bob", "b@x.com")

	rec := s.do(t, http.MethodPost, "/api/v1/posts", map[string]any{
		"title": "First", "desc": "Hello",
	}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	// anyone can read
	rec = s.do(t, http.MethodGet, "/api/v1/posts/1", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// only the author can mutate
	rec = s.do(t, http.MethodPut, "/api/v1/posts/1", map[string]any{"desc": "x"}, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/posts/1", nil, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/posts/1", nil, alice)
	assert.Equal(t, http.StatusOK, rec.Code)
}
