package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mafia-game/mafia-backend/internal/metrics"
	"github.com/mafia-game/mafia-backend/internal/repository"
)

// Sweeper periodically deletes expired email token rows. Expiry is
// still enforced lazily at redemption; the sweeper only removes rows
// that can no longer be redeemed, so the store does not accumulate
// tokens nobody will ever present again.
type Sweeper struct {
	tokens   repository.EmailTokenRepository
	logger   *slog.Logger
	schedule cron.Schedule
}

// New parses the cron expression for the sweep cadence.
func New(tokens repository.EmailTokenRepository, logger *slog.Logger, cronExpr string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", cronExpr, err)
	}
	return &Sweeper{
		tokens:   tokens,
		logger:   logger.With("component", "sweeper"),
		schedule: schedule,
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("sweeper started")

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()

	purged, err := s.tokens.DeleteExpired(ctx, start)
	if err != nil {
		s.logger.Error("sweep expired tokens", "error", err)
		return
	}

	metrics.SweeperCycleDuration.Observe(time.Since(start).Seconds())
	if purged > 0 {
		metrics.SweeperPurgedTotal.Add(float64(purged))
		s.logger.Info("purged expired tokens", "count", purged)
	}
}
