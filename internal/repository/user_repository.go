package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/GautamRaj-1200/legal-blogs/internal/model"
)

// UserRepo is the MySQL-backed UserStore.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,first_name,last_name," +
	"is_verified,email_otp,email_otp_expires_at,reset_otp,reset_otp_expires_at," +
	"refresh_token,roles,created_at,updated_at"

// Create inserts the user and returns the stored record.  Username and
// email are normalized to lower case before insertion.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	username := normalize(u.Username)
	email := normalize(u.Email)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (username,email,password_hash,first_name,last_name,
			is_verified,email_otp,email_otp_expires_at,roles)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		username, email, u.PasswordHash, u.FirstName, u.LastName,
		u.IsVerified, nullStr(u.EmailOTP), u.EmailOTPExpiresAt, joinList(u.Roles))
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

func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalize(email))
}

// GetByIdentifier resolves a username or an email to an account.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	id := normalize(identifier)
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1", id, id)
}

func (r *UserRepo) GetByRefreshToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE refresh_token=? LIMIT 1", token)
}

// Update writes every mutable field of the record and returns the stored
// row.  updated_at is maintained by the database on each write.
func (r *UserRepo) Update(ctx context.Context, u *model.User) (*model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET username=?, email=?, password_hash=?, first_name=?,
			last_name=?, is_verified=?, email_otp=?, email_otp_expires_at=?,
			reset_otp=?, reset_otp_expires_at=?, refresh_token=?, roles=?
		 WHERE id=?`,
		normalize(u.Username), normalize(u.Email), u.PasswordHash, u.FirstName,
		u.LastName, u.IsVerified, nullStr(u.EmailOTP), u.EmailOTPExpiresAt,
		nullStr(u.ResetOTP), u.ResetOTPExpiresAt, nullStr(u.RefreshToken),
		joinList(u.Roles), u.ID)
	if err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Row may exist with identical values; distinguish via lookup.
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, u.ID)
}

func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u            model.User
		emailOTP     sql.NullString
		emailExp     sql.NullTime
		resetOTP     sql.NullString
		resetExp     sql.NullTime
		refreshToken sql.NullString
		roles        string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.IsVerified, &emailOTP, &emailExp, &resetOTP, &resetExp,
		&refreshToken, &roles, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.EmailOTP = emailOTP.String
	if emailExp.Valid {
		t := emailExp.Time
		u.EmailOTPExpiresAt = &t
	}
	u.ResetOTP = resetOTP.String
	if resetExp.Valid {
		t := resetExp.Time
		u.ResetOTPExpiresAt = &t
	}
	u.RefreshToken = refreshToken.String
	u.Roles = splitList(roles)
	return &u, nil
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// joinList stores a string set as a comma-joined column value.
func joinList(items []string) string { return strings.Join(items, ",") }

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isDuplicateErr detects MySQL error 1062 (duplicate entry).
func isDuplicateErr(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
