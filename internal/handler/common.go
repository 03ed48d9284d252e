// Package handler implements the HTTP handlers for authentication, posts
// and users.  Responses use a uniform envelope: {message, data?} on success
// and {message} on failure.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// envelope is the response body shape shared by every endpoint.
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Message: message, Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Message: message})
}

func internalError(c echo.Context) error {
	return fail(c, http.StatusInternalServerError, "Internal server error")
}

// setSessionCookie writes an httpOnly, secure, cross-site-capable cookie.
// SameSite=None lets browser clients on other origins carry the session.
func setSessionCookie(c echo.Context, name, value string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearSessionCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
