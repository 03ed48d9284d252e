// Package middleware provides the authentication and authorization gate
// applied to protected routes, plus the Redis response cache.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
	"github.com/GautamRaj-1200/legal-blogs/internal/utils"
)

// userContextKey is the echo context key holding the authenticated account.
const userContextKey = "user"

// AccessTokenCookie and RefreshTokenCookie name the session cookies set at
// login and cleared at logout.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// TokenFromRequest extracts a token from the named cookie, falling back to
// the Authorization header's Bearer value.  Returns "" when neither is set.
func TokenFromRequest(c echo.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Authenticate returns middleware that validates the access token from the
// accessToken cookie or Authorization header, resolves it to a live account
// and stores the account in the request context for downstream ownership
// checks.  Expired and malformed tokens are distinguished in messaging but
// both yield 401.
func Authenticate(secret string, users repository.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
			}
			raw := TokenFromRequest(c, AccessTokenCookie)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized request"})
			}

			claims, err := utils.ParseToken(secret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrExpiredToken) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access token expired"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid access token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid access token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
			}

			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the account attached by Authenticate, or nil when the
// request was not authenticated.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userContextKey).(*model.User)
	return u
}
