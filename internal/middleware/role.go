package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/GautamRaj-1200/legal-blogs/internal/utils"
)

// RequireRole returns middleware that admits the request only when the
// access token's role claims intersect the required set.  The check decodes
// the token itself, so it needs no store round-trip and can run without
// Authenticate; a missing or invalid token yields 401, a valid token with
// insufficient roles yields 403.
func RequireRole(secret string, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
			}
			raw := TokenFromRequest(c, AccessTokenCookie)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - No token provided"})
			}
			claims, err := utils.ParseToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized - Invalid token"})
			}
			for _, r := range claims.Roles {
				if allowed[r] {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Unauthorized - Insufficient permissions"})
		}
	}
}
