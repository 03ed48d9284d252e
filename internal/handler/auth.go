package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/GautamRaj-1200/legal-blogs/internal/config"
	"github.com/GautamRaj-1200/legal-blogs/internal/middleware"
	"github.com/GautamRaj-1200/legal-blogs/internal/model"
	"github.com/GautamRaj-1200/legal-blogs/internal/repository"
	"github.com/GautamRaj-1200/legal-blogs/internal/service"
	"github.com/GautamRaj-1200/legal-blogs/internal/utils"
)

// AuthHandler bundles dependencies for the account lifecycle endpoints:
// registration, email verification, login/logout, token refresh, password
// reset and role assignment.
type AuthHandler struct {
	Cfg      config.Config
	Users    repository.UserStore
	Notifier service.Notifier
}

func NewAuthHandler(cfg config.Config, users repository.UserStore, notifier service.Notifier) *AuthHandler {
	if users == nil || notifier == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users, Notifier: notifier}
}

// ----- DTOs -----

type registerReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type verifyEmailReq struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequestReq struct {
	Email string `json:"email"`
}

type resetPasswordReq struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

type assignRolesReq struct {
	Roles []string `json:"roles"`
}

// Register creates an unverified account, stores a hashed password and a
// fresh email-verification code, and queues the code for delivery.  Mail
// delivery is best-effort: a lost message never fails the registration.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" ||
		req.FirstName == "" || req.LastName == "" {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return internalError(c)
	}
	otp, otpExpires, err := utils.GenerateOTP(h.Cfg.OTPTTL)
	if err != nil {
		return internalError(c)
	}

	u, err := h.Users.Create(ctx, &model.User{
		Username:          req.Username,
		Email:             req.Email,
		PasswordHash:      hash,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		EmailOTP:          otp,
		EmailOTPExpiresAt: &otpExpires,
		Roles:             []string{model.RoleUser},
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fail(c, http.StatusConflict, "User already exists")
		}
		return internalError(c)
	}

	_ = h.Notifier.Send(ctx, u.Email, otp,
		"Email Verification OTP", "OTP to verify your email on legal-blogs is")

	return success(c, http.StatusCreated, "User registered successfully", u.Public())
}

// VerifyEmail consumes the email-verification code and marks the account
// verified.  Verification is one-way; re-submitting after success is a
// conflict, not a silent no-op.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Email and OTP are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c)
	}
	if u.IsVerified {
		return fail(c, http.StatusConflict, "User already verified")
	}
	if !otpValid(u.EmailOTP, u.EmailOTPExpiresAt, req.OTP) {
		return fail(c, http.StatusBadRequest, "Invalid OTP or OTP expired")
	}

	u.EmailOTP = ""
	u.EmailOTPExpiresAt = nil
	u.IsVerified = true
	if _, err := h.Users.Update(ctx, u); err != nil {
		return internalError(c)
	}
	return success(c, http.StatusOK, "Email verified successfully", nil)
}

// Login verifies credentials for a verified account and opens a session:
// a short-lived access token and a long-lived refresh token, both set as
// cookies.  The refresh token is persisted on the account, overwriting any
// prior one, so each account holds a single live session slot.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if !u.IsVerified {
		return fail(c, http.StatusUnauthorized, "User not verified")
	}
	if !h.Cfg.HasTokenSecrets() {
		return internalError(c)
	}

	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, u, h.Cfg.AccessTTL)
	if err != nil {
		return internalError(c)
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, u, h.Cfg.RefreshTTL)
	if err != nil {
		return internalError(c)
	}

	u.RefreshToken = refresh.Token
	if _, err := h.Users.Update(ctx, u); err != nil {
		return internalError(c)
	}

	setSessionCookie(c, middleware.AccessTokenCookie, access.Token, access.Exp)
	setSessionCookie(c, middleware.RefreshTokenCookie, refresh.Token, refresh.Exp)
	return success(c, http.StatusOK, "Login success", u.Public())
}

// Logout ends the session from the caller's perspective no matter what:
// cookies are cleared and the stored refresh token is dropped when the
// presented one still matches an account.  Unknown or absent tokens are
// not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.TokenFromRequest(c, middleware.RefreshTokenCookie)

	clearSessionCookie(c, middleware.AccessTokenCookie)
	clearSessionCookie(c, middleware.RefreshTokenCookie)

	if token != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if u, err := h.Users.GetByRefreshToken(ctx, token); err == nil {
			u.RefreshToken = ""
			_, _ = h.Users.Update(ctx, u)
		}
	}
	return success(c, http.StatusOK, "Logged out successfully", nil)
}

// Refresh exchanges a valid refresh token for a new access token.  The
// refresh token itself is not rotated.  An absent token is treated as an
// implicit logout: cookies are cleared and the response is success-shaped.
// A token that fails verification or no longer matches the account's
// stored refresh token is rejected; that mismatch is what invalidates
// stale tokens after logout or a newer login.
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := middleware.TokenFromRequest(c, middleware.RefreshTokenCookie)
	if token == "" {
		clearSessionCookie(c, middleware.AccessTokenCookie)
		clearSessionCookie(c, middleware.RefreshTokenCookie)
		return success(c, http.StatusOK, "User logged out successfully", nil)
	}
	if !h.Cfg.HasTokenSecrets() {
		return internalError(c)
	}

	claims, err := utils.ParseToken(h.Cfg.RefreshSecret, token)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil || u.RefreshToken != token {
		return fail(c, http.StatusUnauthorized, "Invalid refresh token")
	}

	access, err := utils.NewRefreshedAccessToken(h.Cfg.AccessSecret, u, h.Cfg.RefreshedAccessTTL)
	if err != nil {
		return internalError(c)
	}
	setSessionCookie(c, middleware.AccessTokenCookie, access.Token, access.Exp)
	return success(c, http.StatusOK, "Token refreshed",
		echo.Map{"accessToken": access.Token})
}

// InitiatePasswordReset stores a fresh reset code on the account and queues
// it for delivery.  Mail delivery is best-effort.
func (h *AuthHandler) InitiatePasswordReset(c echo.Context) error {
	var req resetRequestReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return fail(c, http.StatusBadRequest, "Email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c)
	}

	otp, otpExpires, err := utils.GenerateOTP(h.Cfg.OTPTTL)
	if err != nil {
		return internalError(c)
	}
	u.ResetOTP = otp
	u.ResetOTPExpiresAt = &otpExpires
	if _, err := h.Users.Update(ctx, u); err != nil {
		return internalError(c)
	}

	_ = h.Notifier.Send(ctx, u.Email, otp,
		"Forgot Password OTP", "OTP to reset your password on legal-blogs is")

	return success(c, http.StatusOK, "OTP sent to email", nil)
}

// ResetPassword consumes the reset code and replaces the password.  The
// code is cleared as soon as it matches, even if hashing the new password
// fails afterwards.  A successful reset does not log the user in.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || req.OTP == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email, OTP and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c)
	}
	if !otpValid(u.ResetOTP, u.ResetOTPExpiresAt, req.OTP) {
		return fail(c, http.StatusBadRequest, "Invalid OTP or OTP expired")
	}

	u.ResetOTP = ""
	u.ResetOTPExpiresAt = nil

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		// Code is spent either way.
		_, _ = h.Users.Update(ctx, u)
		return internalError(c)
	}
	u.PasswordHash = hash
	if _, err := h.Users.Update(ctx, u); err != nil {
		return internalError(c)
	}
	return success(c, http.StatusOK, "Password changed successfully", nil)
}

// AssignRoles replaces the target account's role set.  The route is gated
// by RequireRole(admin); this handler only validates input and writes.
func (h *AuthHandler) AssignRoles(c echo.Context) error {
	var req assignRolesReq
	if err := c.Bind(&req); err != nil || len(req.Roles) == 0 {
		return fail(c, http.StatusBadRequest, "Invalid roles input")
	}
	if !model.ValidRoles(req.Roles) {
		return fail(c, http.StatusBadRequest, "Invalid role(s) provided")
	}
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c)
	}

	u.Roles = req.Roles
	updated, err := h.Users.Update(ctx, u)
	if err != nil {
		return internalError(c)
	}
	return success(c, http.StatusOK, "User roles updated successfully", updated.Roles)
}

// otpValid checks that a stored code exists, matches the submitted value
// exactly and has not expired.
func otpValid(stored string, expiresAt *time.Time, submitted string) bool {
	return stored != "" && submitted != "" && stored == submitted &&
		expiresAt != nil && time.Now().UTC().Before(*expiresAt)
}
