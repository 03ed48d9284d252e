// Package router registers the HTTP routes and wires middleware onto them.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/GautamRaj-1200/legal-blogs/internal/config"
	"github.com/GautamRaj-1200/legal-blogs/internal/handler"
	"github.com/GautamRaj-1200/legal-blogs/internal/middleware"
	"github.com/GautamRaj-1200/legal-blogs/internal/model"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
)

// RegisterRoutes registers the health check on the provided Echo instance.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account lifecycle routes under /api/v1/auth.
// Every route is unauthenticated except role assignment, which requires a
// valid token carrying the admin role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, users repository.UserStore, cfg config.Config) {
	g := e.Group("/api/v1/auth")
	g.POST("/users", a.Register)
	g.POST("/otp-verifications", a.VerifyEmail)
	g.POST("/sessions", a.Login)
	g.DELETE("/sessions", a.Logout)
	g.POST("/tokens", a.Refresh)
	g.POST("/password-reset-requests", a.InitiatePasswordReset)
	g.POST("/passwords", a.ResetPassword)
	g.POST("/roles/:userId", a.AssignRoles,
		middleware.Authenticate(cfg.AccessSecret, users),
		middleware.RequireRole(cfg.AccessSecret, model.RoleAdmin))
}

// RegisterPosts registers the post CRUD routes under /api/v1/posts.  List
// and fetch are public, with the list served through the response cache;
// mutations require an authenticated session.
func RegisterPosts(e *echo.Echo, p *handler.PostHandler, users repository.UserStore, cfg config.Config, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/api/v1/posts")
	auth := middleware.Authenticate(cfg.AccessSecret, users)

	g.GET("", p.FetchAll, middleware.Cache(cacheCfg, rdb))
	g.GET("/:postId", p.FetchOne)
	g.POST("", p.Create, auth)
	g.PUT("/:postId", p.Update, auth)
	g.DELETE("/:postId", p.DeleteOne, auth)
	g.DELETE("", p.DeleteMine, auth)
}

// RegisterUsers registers the user profile routes under /api/v1/users.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, users repository.UserStore, cfg config.Config, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/api/v1/users")
	auth := middleware.Authenticate(cfg.AccessSecret, users)

	g.GET("", u.List, middleware.Cache(cacheCfg, rdb))
	g.GET("/me", u.Me, auth)
	g.GET("/:userId", u.FetchOne)
	g.PATCH("/:userId", u.Update, auth)
	g.DELETE("/:userId", u.Delete, auth)
}
