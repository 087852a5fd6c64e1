package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"turfbook/config"
	"turfbook/internal/domains/reservation/repository"
	"turfbook/shared/timezone"
)

// Sweeper lazily removes expired reservation rows. Reads already filter
// on expires_at, so correctness never depends on the sweep cadence; this
// only keeps the table from accumulating dead holds.
type Sweeper struct {
	repo     repository.Reservation
	interval time.Duration
}

func NewSweeper(repo repository.Reservation, cfg *config.Config) *Sweeper {
	seconds := cfg.Reservation.SweepIntervalSecs
	if seconds <= 0 {
		seconds = 60
	}

	return &Sweeper{
		repo:     repo,
		interval: time.Duration(seconds) * time.Second,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", s.interval).Msg("Reservation sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Reservation sweeper stopped")

			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.repo.DeleteExpired(ctx, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep expired reservations")

		return
	}

	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Swept expired reservations")
	}
}
