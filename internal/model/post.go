package model

import "time"

// Post mirrors the `posts` table.  Title is unique across all posts.
// AuthorID references users.id; only the author may update or delete the
// post.  Categories are free-form labels attached by the author.
type Post struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Desc          string    `json:"desc"`
	CoverImageURL string    `json:"coverImageURL,omitempty"`
	Categories    []string  `json:"categories"`
	AuthorID      uint64    `json:"author"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
