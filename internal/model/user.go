package model

import "time"

// Role names accepted by the application.  Roles are stored on the user
// record as a set; every account carries at least one role.
const (
	RoleUser   = "user"
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

// validRoles is the fixed role vocabulary.  Role assignment replaces the
// whole set and every element must appear here.
var validRoles = map[string]bool{
	RoleUser:   true,
	RoleAuthor: true,
	RoleAdmin:  true,
}

// ValidRoles reports whether roles is a non-empty subset of the role
// vocabulary.
func ValidRoles(roles []string) bool {
	if len(roles) == 0 {
		return false
	}
	for _, r := range roles {
		if !validRoles[r] {
			return false
		}
	}
	return true
}

// User represents an account record as stored in the `users` table.
// Username and Email are lower-cased before persistence and unique across
// all accounts.  The OTP pairs track the pending email-verification and
// password-reset codes; each code is single-use and valid only until its
// expiry.  RefreshToken holds the single live refresh token for the
// account; issuing a new one overwrites the previous value.
type User struct {
	ID                uint64
	Username          string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	IsVerified        bool
	EmailOTP          string
	EmailOTPExpiresAt *time.Time
	ResetOTP          string
	ResetOTPExpiresAt *time.Time
	RefreshToken      string
	Roles             []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicUser is the secret-free projection of a User returned to clients.
// Password hash, OTP state and the refresh token never leave the server.
type PublicUser struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IsVerified bool      `json:"isVerified"`
	Roles      []string  `json:"roles"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Public strips credential and session state from the user.
func (u *User) Public() PublicUser {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsVerified: u.IsVerified,
		Roles:      roles,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// HasRole reports whether the user carries any of the given roles.
func (u *User) HasRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
