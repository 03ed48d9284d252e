package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
	"github.com/GautamRaj-1200/legal-blogs/internal/utils"
)

const testSecret = "access-secret"

func seedUser(t *testing.T, users *repository.MemoryUserStore) *model.User {
	t.Helper()
	u, err := users.Create(context.Background(), &model.User{
		Username:   "alice",
		Email:      "a@x.com",
		IsVerified: true,
		Roles:      []string{model.RoleUser},
	})
	require.NoError(t, err)
	return u
}

func signedToken(t *testing.T, u *model.User, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, u, ttl)
	require.NoError(t, err)
	return tok.Token
}

// runGate invokes a middleware chain against a bare GET request and reports
// the recorded response plus whether the inner handler ran.
func runGate(t *testing.T, mw echo.MiddlewareFunc, decorate func(*http.Request)) (*httptest.ResponseRecorder, bool, *model.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	var seen *model.User
	err := mw(func(c echo.Context) error {
		called = true
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return rec, called, seen
}

func TestAuthenticateMissingToken(t *testing.T) {
	users := repository.NewMemoryUserStore()
	rec, called, _ := runGate(t, Authenticate(testSecret, users), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthenticateBearerHeader(t *testing.T) {
	users := repository.NewMemoryUserStore()
	u := seedUser(t, users)
	token := signedToken(t, u, time.Minute)

	rec, called, seen := runGate(t, Authenticate(testSecret, users), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	require.NotNil(t, seen)
	assert.Equal(t, u.ID, seen.ID)
}

func TestAuthenticateCookie(t *testing.T) {
	users := repository.NewMemoryUserStore()
	u := seedUser(t, users)
	token := signedToken(t, u, time.Minute)

	rec, called, seen := runGate(t, Authenticate(testSecret, users), func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	require.NotNil(t, seen)
	assert.Equal(t, u.ID, seen.ID)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	users := repository.NewMemoryUserStore()
	u := seedUser(t, users)
	token := signedToken(t, u, -time.Minute)

	rec, called, _ := runGate(t, Authenticate(testSecret, users), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
	assert.False(t, called)
}

func TestAuthenticateDeletedAccount(t *testing.T) {
	users := repository.NewMemoryUserStore()
	u := seedUser(t, users)
	token := signedToken(t, u, time.Minute)
	require.NoError(t, users.Delete(context.Background(), u.ID))

	rec, called, _ := runGate(t, Authenticate(testSecret, users), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthenticateMissingSecret(t *testing.T) {
	users := repository.NewMemoryUserStore()
	rec, called, _ := runGate(t, Authenticate("", users), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)
}

func TestRequireRole(t *testing.T) {
	users := repository.NewMemoryUserStore()
	admin, err := users.Create(context.Background(), &model.User{
		Username: "root", Email: "root@x.com",
		Roles: []string{model.RoleAdmin},
	})
	require.NoError(t, err)
	regular := seedUser(t, users)

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{"admin allowed", signedToken(t, admin, time.Minute), http.StatusOK},
		{"user forbidden", signedToken(t, regular, time.Minute), http.StatusForbidden},
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, _ := runGate(t, RequireRole(testSecret, model.RoleAdmin), func(r *http.Request) {
				if tt.token != "" {
					r.Header.Set("Authorization", "Bearer "+tt.token)
				}
			})
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireRoleIgnoresRolelessToken(t *testing.T) {
	users := repository.NewMemoryUserStore()
	admin, err := users.Create(context.Background(), &model.User{
		Username: "root", Email: "root@x.com",
		Roles: []string{model.RoleAdmin},
	})
	require.NoError(t, err)

	// The refresh path mints tokens without role claims; those must not
	// clear a role gate even for an admin account.
	tok, err := utils.NewRefreshedAccessToken(testSecret, admin, time.Minute)
	require.NoError(t, err)

	rec, _, _ := runGate(t, RequireRole(testSecret, model.RoleAdmin), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok.Token)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
