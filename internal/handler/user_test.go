package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
)

type userFixture struct {
	h     *UserHandler
	users *repository.MemoryUserStore
	alice *model.User
	bob   *model.User
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := repository.NewMemoryUserStore()
	alice, err := users.Create(context.Background(), &model.User{
		Username: "alice", Email: "a@x.com", FirstName: "A", LastName: "B",
		IsVerified: true, Roles: []string{model.RoleUser},
		PasswordHash: "hash", RefreshToken: "tok",
	})
	require.NoError(t, err)
	bob, err := users.Create(context.Background(), &model.User{
		Username: "bob", Email: "b@x.com", IsVerified: true,
		Roles: []string{model.RoleUser},
	})
	require.NoError(t, err)
	return &userFixture{h: NewUserHandler(users), users: users, alice: alice, bob: bob}
}

func TestListUsers(t *testing.T) {
	f := newUserFixture(t)
	rec := callAs(t, f.h.List, http.MethodGet, nil, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "bob")
	// Secret fields never appear in the projection.
	assert.NotContains(t, body, "hash")
	assert.NotContains(t, body, "tok")
}

func TestListUsersEmpty(t *testing.T) {
	h := NewUserHandler(repository.NewMemoryUserStore())
	rec := callAs(t, h.List, http.MethodGet, nil, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMe(t *testing.T) {
	f := newUserFixture(t)
	rec := callAs(t, f.h.Me, http.MethodGet, nil, f.alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")

	rec = callAs(t, f.h.Me, http.MethodGet, nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFetchSingleUser(t *testing.T) {
	f := newUserFixture(t)
	rec := callAs(t, f.h.FetchOne, http.MethodGet, nil, nil,
		map[string]string{"userId": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = callAs(t, f.h.FetchOne, http.MethodGet, nil, nil,
		map[string]string{"userId": "99"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUserOwnership(t *testing.T) {
	f := newUserFixture(t)

	// Another authenticated account may not touch Alice's profile.
	rec := callAs(t, f.h.Update, http.MethodPatch,
		map[string]string{"firstName": "Mallory"}, f.bob,
		map[string]string{"userId": "1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = callAs(t, f.h.Update, http.MethodPatch,
		map[string]string{"firstName": "Alicia"}, f.alice,
		map[string]string{"userId": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	u, err := f.users.GetByID(context.Background(), f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.FirstName)
	assert.Equal(t, "B", u.LastName) // untouched field survives
}

func TestUpdateUserTakenUsername(t *testing.T) {
	f := newUserFixture(t)
	rec := callAs(t, f.h.Update, http.MethodPatch,
		map[string]string{"username": "bob"}, f.alice,
		map[string]string{"userId": "1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteUserOwnership(t *testing.T) {
	f := newUserFixture(t)

	rec := callAs(t, f.h.Delete, http.MethodDelete, nil, f.bob,
		map[string]string{"userId": "1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = callAs(t, f.h.Delete, http.MethodDelete, nil, f.alice,
		map[string]string{"userId": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := f.users.GetByID(context.Background(), f.alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteUnknownUser(t *testing.T) {
	f := newUserFixture(t)
	rec := callAs(t, f.h.Delete, http.MethodDelete, nil, f.alice,
		map[string]string{"userId": "99"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
