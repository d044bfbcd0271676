package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mafia-game/mafia-backend/internal/domain"
	"github.com/mafia-game/mafia-backend/internal/email"
	"github.com/mafia-game/mafia-backend/internal/repository"
)

const (
	defaultAccessTTL  = 1 * time.Hour
	defaultConfirmTTL = 24 * time.Hour
	defaultResetTTL   = 1 * time.Hour
)

// AuthConfig carries the signing key, token lifetimes and link bases.
// Everything is explicit — there is no ambient global configuration.
type AuthConfig struct {
	JWTKey      []byte
	AccessTTL   time.Duration
	ConfirmTTL  time.Duration
	ResetTTL    time.Duration
	BaseURL     string
	FrontendURL string
}

type AuthUsecase struct {
	users  repository.UserRepository
	tokens repository.EmailTokenRepository
	email  email.Sender

	jwtKey      []byte
	accessTTL   time.Duration
	confirmTTL  time.Duration
	resetTTL    time.Duration
	baseURL     string
	frontendURL string
}

func NewAuthUsecase(users repository.UserRepository, tokens repository.EmailTokenRepository, emailSender email.Sender, cfg AuthConfig) *AuthUsecase {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.ConfirmTTL == 0 {
		cfg.ConfirmTTL = defaultConfirmTTL
	}
	if cfg.ResetTTL == 0 {
		cfg.ResetTTL = defaultResetTTL
	}
	return &AuthUsecase{
		users:       users,
		tokens:      tokens,
		email:       emailSender,
		jwtKey:      cfg.JWTKey,
		accessTTL:   cfg.AccessTTL,
		confirmTTL:  cfg.ConfirmTTL,
		resetTTL:    cfg.ResetTTL,
		baseURL:     cfg.BaseURL,
		frontendURL: cfg.FrontendURL,
	}
}

type RegisterOutput struct {
	User *domain.User
	// NotifyErr reports a failed confirmation email. The account is
	// created either way; the caller logs this instead of failing.
	NotifyErr error
}

// Register creates an unverified, active account and emails a
// confirmation link. Email and username are normalized first.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, username, password string) (*RegisterOutput, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	username = strings.TrimSpace(username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, emailAddr, username, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	out := &RegisterOutput{User: user}

	rawToken, err := u.issueEmailToken(ctx, user.ID, domain.PurposeConfirm, u.confirmTTL)
	if err != nil {
		return nil, fmt.Errorf("issue confirm token: %w", err)
	}

	link := u.baseURL + "/auth/confirm-email?token=" + rawToken
	subject := "Confirm your email"
	body := fmt.Sprintf(
		`<p>Hi %s, confirm your email to start playing (link expires in 24 hours):</p><p><a href="%s">%s</a></p>`,
		user.Username, link, link,
	)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		out.NotifyErr = fmt.Errorf("send confirm email: %w", err)
	}

	return out, nil
}

// ConfirmEmail redeems a confirm token and marks the account verified.
// The token row is gone after this call whether it was valid or expired.
func (u *AuthUsecase) ConfirmEmail(ctx context.Context, rawToken string) error {
	t, err := u.tokens.Claim(ctx, hashToken(rawToken), domain.PurposeConfirm)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("claim confirm token: %w", err)
	}
	if time.Now().After(t.ExpiresAt) {
		return domain.ErrTokenExpired
	}

	if err := u.users.SetVerified(ctx, t.UserID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("set verified: %w", err)
	}
	return nil
}

// Login checks credentials and returns a signed session JWT. Unknown
// username and wrong password produce the same error so callers cannot
// probe which accounts exist.
func (u *AuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)

	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return "", domain.ErrEmailNotConfirmed
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(u.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// ForgotPassword issues a reset token and emails the link when the
// account exists. A missing account is not an error; the HTTP layer
// answers 200 either way to prevent enumeration.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	rawToken, err := u.issueEmailToken(ctx, user.ID, domain.PurposeReset, u.resetTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	link := u.frontendURL + "/reset-password?token=" + rawToken
	subject := "Reset your password"
	body := fmt.Sprintf(
		`<p>Hi %s, click the link below to reset your password (expires in 60 minutes):</p><p><a href="%s">%s</a></p>`,
		user.Username, link, link,
	)
	if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token and stores a fresh hash.
func (u *AuthUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	t, err := u.tokens.Claim(ctx, hashToken(rawToken), domain.PurposeReset)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("claim reset token: %w", err)
	}
	if time.Now().After(t.ExpiresAt) {
		return domain.ErrTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := u.users.UpdatePassword(ctx, t.UserID, string(hash)); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenInvalid
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// issueEmailToken generates a 256-bit random token, stores its hash
// with the purpose and expiry, and returns the raw value for the link.
func (u *AuthUsecase) issueEmailToken(ctx context.Context, userID int64, purpose domain.TokenPurpose, ttl time.Duration) (string, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	expiresAt := time.Now().Add(ttl)
	if err := u.tokens.Create(ctx, userID, hashToken(rawToken), purpose, expiresAt); err != nil {
		return "", fmt.Errorf("store email token: %w", err)
	}
	return rawToken, nil
}

func hashToken(rawToken string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(rawToken)))
}
