package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mafia-game/mafia-backend/internal/domain"
)

type EmailTokenRepository struct {
	pool *pgxpool.Pool
}

func NewEmailTokenRepository(pool *pgxpool.Pool) *EmailTokenRepository {
	return &EmailTokenRepository{pool: pool}
}

func (r *EmailTokenRepository) Create(ctx context.Context, userID int64, tokenHash string, purpose domain.TokenPurpose, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO email_tokens (user_id, token_hash, purpose, expires_at)
		VALUES ($1, $2, $3, $4)`,
		userID, tokenHash, purpose, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create email token: %w", err)
	}
	return nil
}

// Claim deletes and returns the matching row in one statement. Postgres
// row locking guarantees that of two concurrent redeemers exactly one
// gets the row back; the other sees no rows and fails.
func (r *EmailTokenRepository) Claim(ctx context.Context, tokenHash string, purpose domain.TokenPurpose) (*domain.EmailToken, error) {
	query := `
		DELETE FROM email_tokens
		WHERE  token_hash = $1 AND purpose = $2
		RETURNING id, user_id, token_hash, purpose, expires_at, created_at`

	var t domain.EmailToken
	err := r.pool.QueryRow(ctx, query, tokenHash, purpose).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.Purpose, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("claim email token: %w", err)
	}
	return &t, nil
}

func (r *EmailTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM email_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
