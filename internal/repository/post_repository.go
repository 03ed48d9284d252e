package repository

import (
	"context"
	"database/sql"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
)

// PostRepo is the MySQL-backed PostStore.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "id,title,`desc`,cover_image_url,categories,author_id,created_at,updated_at"

// Create inserts the post and returns the stored record.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (title,`desc`,cover_image_url,categories,author_id) VALUES (?,?,?,?,?)",
		p.Title, p.Desc, nullStr(p.CoverImageURL), joinList(p.Categories), p.AuthorID)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *PostRepo) GetByID(ctx context.Context, id uint64) (*model.Post, error) {
	p, err := scanPost(r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PostRepo) List(ctx context.Context) ([]model.Post, error) {
	return r.listWhere(ctx, "SELECT "+postColumns+" FROM posts ORDER BY id")
}

// Update writes every mutable field of the post.
func (r *PostRepo) Update(ctx context.Context, p *model.Post) (*model.Post, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, `desc`=?, cover_image_url=?, categories=? WHERE id=?",
		p.Title, p.Desc, nullStr(p.CoverImageURL), joinList(p.Categories), p.ID)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByAuthor removes every post owned by the author.
func (r *PostRepo) DeleteByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE author_id=?", authorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PostRepo) listWhere(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func scanPost(row rowScanner) (*model.Post, error) {
	var (
		p          model.Post
		cover      sql.NullString
		categories string
	)
	err := row.Scan(&p.ID, &p.Title, &p.Desc, &cover, &categories, &p.AuthorID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.CoverImageURL = cover.String
	p.Categories = splitList(categories)
	return &p, nil
}
