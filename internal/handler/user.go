package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/GautamRaj-1200/legal-blogs/internal/middleware"
	"github.com/GautamRaj-1200/legal-blogs/internal/model"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
)

// UserHandler implements the user profile endpoints.  Reads are public and
// return secret-free projections; updates and deletes are owner-only.
type UserHandler struct {
	Users repository.UserStore
}

func NewUserHandler(users repository.UserStore) *UserHandler {
	if users == nil {
		panic("nil store passed to NewUserHandler")
	}
	return &UserHandler{Users: users}
}

type updateUserReq struct {
	Username  *string `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// List returns every account's public projection.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return internalError(c)
	}
	if len(users) == 0 {
		return fail(c, http.StatusNotFound, "No users found")
	}
	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return success(c, http.StatusOK, "Users fetched successfully", public)
}

// Me returns the authenticated account.
func (h *UserHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return fail(c, http.StatusUnauthorized, "User not authenticated")
	}
	return success(c, http.StatusOK, "User fetched successfully", user.Public())
}

// FetchOne returns a single account's public projection.
func (h *UserHandler) FetchOne(c echo.Context) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c)
	}
	return success(c, http.StatusOK, "User fetched successfully", u.Public())
}

// Update replaces the provided profile fields.  Only the account owner may
// update; any other authenticated caller gets 403.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	caller := middleware.CurrentUser(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c)
	}
	if u.ID != caller.ID {
		return fail(c, http.StatusForbidden, "You can update only your details")
	}

	if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
		u.Username = strings.TrimSpace(*req.Username)
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}

	updated, err := h.Users.Update(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, http.StatusConflict, "Username already taken")
		}
		return internalError(c)
	}
	return success(c, http.StatusOK, "User details updated", updated.Public())
}

// Delete removes the caller's own account.  Hard delete.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "userId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}
	caller := middleware.CurrentUser(c)
	if caller == nil {
		return fail(c, http.StatusUnauthorized, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c)
	}
	if u.ID != caller.ID {
		return fail(c, http.StatusForbidden, "You can delete only your account")
	}
	if err := h.Users.Delete(ctx, id); err != nil {
		return internalError(c)
	}
	return success(c, http.StatusOK, "The user has been deleted", nil)
}
