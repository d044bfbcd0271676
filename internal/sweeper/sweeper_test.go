package sweeper_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mafia-game/mafia-backend/internal/domain"
	"github.com/mafia-game/mafia-backend/internal/sweeper"
)

type fakeTokenRepo struct {
	deleteExpired func(ctx context.Context, now time.Time) (int64, error)
}

func (r *fakeTokenRepo) Create(_ context.Context, _ int64, _ string, _ domain.TokenPurpose, _ time.Time) error {
	panic("not used")
}

func (r *fakeTokenRepo) Claim(_ context.Context, _ string, _ domain.TokenPurpose) (*domain.EmailToken, error) {
	panic("not used")
}

func (r *fakeTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteExpired(ctx, now)
}

func TestNew_InvalidCronExpr_ReturnsError(t *testing.T) {
	_, err := sweeper.New(&fakeTokenRepo{}, slog.Default(), "not a cron expr")
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestStart_RunsSweepOnSchedule(t *testing.T) {
	swept := make(chan struct{}, 1)
	repo := &fakeTokenRepo{
		deleteExpired: func(_ context.Context, _ time.Time) (int64, error) {
			select {
			case swept <- struct{}{}:
			default:
			}
			return 3, nil
		},
	}

	sw, err := sweeper.New(repo, slog.Default(), "@every 10ms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sw.Start(ctx)

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run")
	}
}
