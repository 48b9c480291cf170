package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating an account. Username
// accepts either the login name or the college email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and account info.
type LoginResponse struct {
	AccessToken        string      `json:"access_token"`
	ExpiresIn          int64       `json:"expires_in"`
	IssuedAt           time.Time   `json:"issued_at"`
	MustChangePassword bool        `json:"must_change_password"`
	Account            AccountInfo `json:"account"`
}

// ChangePasswordRequest payload for rotating a password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// AccountInfo describes the authenticated account in responses.
type AccountInfo struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     AccountRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	AccountID string      `json:"account_id"`
	Role      AccountRole `json:"role"`
	Username  string      `json:"username"`
	jwt.RegisteredClaims
}
