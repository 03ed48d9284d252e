package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:    42,
		Email: "alice@example.com",
		Roles: []string{model.RoleUser, model.RoleAuthor},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("access-secret", testUser(), 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseToken("access-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{model.RoleUser, model.RoleAuthor}, claims.Roles)
}

func TestRefreshTokenUsesOwnSecret(t *testing.T) {
	tok, err := NewRefreshToken("refresh-secret", testUser(), 24*time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("refresh-secret", tok.Token)
	require.NoError(t, err)

	// The access secret must not verify a refresh token.
	_, err = ParseToken("access-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshedAccessTokenOmitsRoles(t *testing.T) {
	tok, err := NewRefreshedAccessToken("access-secret", testUser(), 30*time.Second)
	require.NoError(t, err)

	claims, err := ParseToken("access-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Empty(t, claims.Roles)
}

func TestParseTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("access-secret", testUser(), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("access-secret", tok.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenInvalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken("access-secret", tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("access-secret", testUser(), time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("another-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
