package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/GautamRaj-1200/legal-blogs/internal/middleware"
	"github.com/GautamRaj-1200/legal-blogs/internal/model"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
)

// PostHandler implements the post CRUD endpoints.  Reads are public;
// mutations require authentication and, except creation, ownership.
type PostHandler struct {
	Posts repository.PostStore
}

func NewPostHandler(posts repository.PostStore) *PostHandler {
	if posts == nil {
		panic("nil store passed to NewPostHandler")
	}
	return &PostHandler{Posts: posts}
}

type postReq struct {
	Title         *string  `json:"title"`
	Desc          *string  `json:"desc"`
	CoverImageURL *string  `json:"coverImageURL"`
	Categories    []string `json:"categories"`
}

// Create stores a new post authored by the authenticated user.
func (h *PostHandler) Create(c echo.Context) error {
	var req postReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Title and description must be provided")
	}
	title := strFrom(req.Title)
	desc := strFrom(req.Desc)
	if title == "" && desc == "" {
		return fail(c, http.StatusBadRequest, "Title and description must be provided")
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return fail(c, http.StatusUnauthorized, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.Create(ctx, &model.Post{
		Title:         title,
		Desc:          desc,
		CoverImageURL: strFrom(req.CoverImageURL),
		Categories:    req.Categories,
		AuthorID:      user.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, http.StatusConflict, "A post with this title already exists")
		}
		return internalError(c)
	}
	return success(c, http.StatusCreated, "Post created successfully", p)
}

// FetchAll returns every post.  The route sits behind the response cache.
func (h *PostHandler) FetchAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.List(ctx)
	if err != nil {
		return internalError(c)
	}
	if len(posts) == 0 {
		return fail(c, http.StatusNotFound, "No posts found")
	}
	return success(c, http.StatusOK, "Posts fetched successfully", posts)
}

// FetchOne returns a single post by id.
func (h *PostHandler) FetchOne(c echo.Context) error {
	id, err := pathID(c, "postId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid post id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Requested post not found")
		}
		return internalError(c)
	}
	return success(c, http.StatusOK, "Post fetched successfully", p)
}

// Update replaces the provided fields of the caller's own post.  Fields
// absent from the body keep their stored values.
func (h *PostHandler) Update(c echo.Context) error {
	id, err := pathID(c, "postId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid post id")
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return fail(c, http.StatusUnauthorized, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Post not found")
		}
		return internalError(c)
	}
	if p.AuthorID != user.ID {
		return fail(c, http.StatusForbidden, "You can update only your posts")
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Desc != nil {
		p.Desc = *req.Desc
	}
	if req.CoverImageURL != nil {
		p.CoverImageURL = *req.CoverImageURL
	}
	if req.Categories != nil {
		p.Categories = req.Categories
	}

	updated, err := h.Posts.Update(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, http.StatusConflict, "A post with this title already exists")
		}
		return internalError(c)
	}
	return success(c, http.StatusOK, "Post updated successfully", updated)
}

// DeleteOne removes the caller's own post.
func (h *PostHandler) DeleteOne(c echo.Context) error {
	id, err := pathID(c, "postId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid post id")
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return fail(c, http.StatusUnauthorized, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Post not found")
		}
		return internalError(c)
	}
	if p.AuthorID != user.ID {
		return fail(c, http.StatusForbidden, "You can delete only your posts")
	}
	if err := h.Posts.Delete(ctx, id); err != nil {
		return internalError(c)
	}
	return success(c, http.StatusOK, "The post has been deleted", nil)
}

// DeleteMine removes every post owned by the caller.
func (h *PostHandler) DeleteMine(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return fail(c, http.StatusUnauthorized, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Posts.DeleteByAuthor(ctx, user.ID)
	if err != nil {
		return internalError(c)
	}
	if n == 0 {
		return fail(c, http.StatusNotFound, "Couldn't find posts for the specified user")
	}
	return success(c, http.StatusOK, "All posts deleted successfully",
		echo.Map{"deletedCount": n})
}

func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
}

func strFrom(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
