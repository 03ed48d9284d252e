// Package utils provides helpers for password hashing, token issuing and
// one-time code generation.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
)

var (
	// ErrInvalidToken covers malformed tokens, bad signatures and tokens
	// signed with a different secret or algorithm.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for structurally valid tokens past exp.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the JWT claim set carried by both token kinds.  Access tokens
// embed the role set so authorization checks need no store lookup; the
// access token minted on the refresh path deliberately leaves Roles empty.
type Claims struct {
	UserID uint64   `json:"uid"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// SignedToken bundles a serialized JWT with its expiry.
type SignedToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken signs a short-lived HS256 token carrying id, email and
// roles.  Access and refresh tokens use distinct secrets so a compromise
// of one cannot forge the other.
func NewAccessToken(secret string, u *model.User, ttl time.Duration) (SignedToken, error) {
	return signToken(secret, u, u.Roles, ttl)
}

// NewRefreshToken signs a long-lived HS256 token with the refresh secret.
func NewRefreshToken(secret string, u *model.User, ttl time.Duration) (SignedToken, error) {
	return signToken(secret, u, u.Roles, ttl)
}

// NewRefreshedAccessToken signs the access token handed out on the refresh
// path.  It omits roles and uses a much shorter TTL, so role-bearing work
// forces a full login.
func NewRefreshedAccessToken(secret string, u *model.User, ttl time.Duration) (SignedToken, error) {
	return signToken(secret, u, nil, ttl)
}

func signToken(secret string, u *model.User, roles []string, ttl time.Duration) (SignedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// ParseToken validates signature and expiry against the given secret and
// returns the claims.  Expired tokens yield ErrExpiredToken; every other
// failure yields ErrInvalidToken.
func ParseToken(secret, token string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
