package repository

import (
	"context"

	"github.com/mafia-game/mafia-backend/internal/domain"
)

type UserRepository interface {
	// Create inserts a new account. Returns domain.ErrDuplicateAccount
	// when the email or username is already taken.
	Create(ctx context.Context, email, username, passwordHash string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	SetVerified(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
