package domain

import (
	"errors"
	"time"
)

var (
	ErrDuplicateAccount   = errors.New("email or username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
)

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	IsVerified   bool
	CreatedAt    time.Time
}

// TokenPurpose discriminates email tokens so a confirm link can never
// be replayed as a password reset and vice versa.
type TokenPurpose string

const (
	PurposeConfirm TokenPurpose = "confirm"
	PurposeReset   TokenPurpose = "reset"
)

// EmailToken is a single-use, expiring secret mailed to the user.
// Only the SHA-256 of the raw token is stored; redemption deletes the row.
type EmailToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	Purpose   TokenPurpose
	ExpiresAt time.Time
	CreatedAt time.Time
}
