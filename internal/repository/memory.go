package repository

import (
	"context"
	"sync"
	"time"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
)

// MemoryUserStore is an in-memory UserStore used by tests.  It enforces the
// same uniqueness rules as the MySQL schema and maintains the timestamp
// columns the database would.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1, users: map[uint64]model.User{}}
}

func (s *MemoryUserStore) Create(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username := normalize(u.Username)
	email := normalize(u.Email)
	for _, existing := range s.users {
		if existing.Username == username || existing.Email == email {
			return nil, ErrDuplicate
		}
	}
	stored := cloneUser(*u)
	stored.ID = s.nextID
	stored.Username = username
	stored.Email = email
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.users[stored.ID] = stored
	s.nextID++
	out := cloneUser(stored)
	return &out, nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == normalize(email) })
}

func (s *MemoryUserStore) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	id := normalize(identifier)
	return s.find(func(u model.User) bool { return u.Username == id || u.Email == id })
}

func (s *MemoryUserStore) GetByRefreshToken(_ context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.find(func(u model.User) bool { return u.RefreshToken == token })
}

func (s *MemoryUserStore) Update(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return nil, ErrNotFound
	}
	username := normalize(u.Username)
	email := normalize(u.Email)
	for id, other := range s.users {
		if id != u.ID && (other.Username == username || other.Email == email) {
			return nil, ErrDuplicate
		}
	}
	stored := cloneUser(*u)
	stored.Username = username
	stored.Email = email
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = stored
	out := cloneUser(stored)
	return &out, nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []model.User
	for id := uint64(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (s *MemoryUserStore) find(match func(model.User) bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := uint64(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok && match(u) {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func cloneUser(u model.User) model.User {
	out := u
	out.Roles = append([]string(nil), u.Roles...)
	if u.EmailOTPExpiresAt != nil {
		t := *u.EmailOTPExpiresAt
		out.EmailOTPExpiresAt = &t
	}
	if u.ResetOTPExpiresAt != nil {
		t := *u.ResetOTPExpiresAt
		out.ResetOTPExpiresAt = &t
	}
	return out
}

// MemoryPostStore is an in-memory PostStore used by tests.
type MemoryPostStore struct {
	mu     sync.Mutex
	nextID uint64
	posts  map[uint64]model.Post
}

func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{nextID: 1, posts: map[uint64]model.Post{}}
}

func (s *MemoryPostStore) Create(_ context.Context, p *model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.posts {
		if existing.Title == p.Title {
			return nil, ErrDuplicate
		}
	}
	stored := clonePost(*p)
	stored.ID = s.nextID
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.posts[stored.ID] = stored
	s.nextID++
	out := clonePost(stored)
	return &out, nil
}

func (s *MemoryPostStore) GetByID(_ context.Context, id uint64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clonePost(p)
	return &out, nil
}

func (s *MemoryPostStore) List(_ context.Context) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []model.Post
	for id := uint64(1); id < s.nextID; id++ {
		if p, ok := s.posts[id]; ok {
			posts = append(posts, clonePost(p))
		}
	}
	return posts, nil
}

func (s *MemoryPostStore) Update(_ context.Context, p *model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.posts[p.ID]
	if !ok {
		return nil, ErrNotFound
	}
	for id, other := range s.posts {
		if id != p.ID && other.Title == p.Title {
			return nil, ErrDuplicate
		}
	}
	stored := clonePost(*p)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	s.posts[p.ID] = stored
	out := clonePost(stored)
	return &out, nil
}

func (s *MemoryPostStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryPostStore) DeleteByAuthor(_ context.Context, authorID uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, p := range s.posts {
		if p.AuthorID == authorID {
			delete(s.posts, id)
			n++
		}
	}
	return n, nil
}

func clonePost(p model.Post) model.Post {
	out := p
	out.Categories = append([]string(nil), p.Categories...)
	return out
}
