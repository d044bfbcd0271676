package repository

import (
	"context"
	"time"

	"github.com/mafia-game/mafia-backend/internal/domain"
)

type EmailTokenRepository interface {
	// Create persists a new token row. Multiple live tokens may coexist
	// for the same (user, purpose); each dies on its own redemption or expiry.
	Create(ctx context.Context, userID int64, tokenHash string, purpose domain.TokenPurpose, expiresAt time.Time) error

	// Claim atomically deletes the row matching tokenHash+purpose and
	// returns it, so a token can never be redeemed twice even under
	// concurrent requests. Returns domain.ErrTokenInvalid when no row
	// matches. Expiry is not checked here; the caller inspects ExpiresAt.
	Claim(ctx context.Context, tokenHash string, purpose domain.TokenPurpose) (*domain.EmailToken, error)

	// DeleteExpired removes expired rows and reports how many were purged.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
