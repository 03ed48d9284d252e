package repository

import (
	"context"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
)

// UserStore is the abstract account store consumed by handlers and
// middleware.  The MySQL implementation is used in production; an
// in-memory implementation backs the tests.  Update writes every mutable
// field of the record, so callers load, mutate and save.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetByIdentifier resolves a username or an email to an account.
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]model.User, error)
}

// PostStore is the abstract post store.
type PostStore interface {
	Create(ctx context.Context, p *model.Post) (*model.Post, error)
	GetByID(ctx context.Context, id uint64) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, p *model.Post) (*model.Post, error)
	Delete(ctx context.Context, id uint64) error
	// DeleteByAuthor removes every post owned by the author and reports
	// how many rows were deleted.
	DeleteByAuthor(ctx context.Context, authorID uint64) (int64, error)
}
