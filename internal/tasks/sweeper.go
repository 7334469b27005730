package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"callqueue/internal/queue"
	"callqueue/internal/store"
)

// Sweeper evicts callers whose entries have outlived the retention
// window, catching callers that hung up without the telephony layer
// reporting it. Eviction goes through the engine, so positions are
// renumbered and live clients notified exactly as on a normal leave.
type Sweeper struct {
	engine *queue.Engine
	store  store.Reader
	after  time.Duration
	log    zerolog.Logger
}

// NewSweeper creates a Sweeper that treats entries older than after as
// abandoned.
func NewSweeper(engine *queue.Engine, st store.Reader, after time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		engine: engine,
		store:  st,
		after:  after,
		log:    log.With().Str("component", "sweeper").Logger(),
	}
}

// Sweep runs one eviction pass and reports how many callers it
// removed. A failure on one entry does not stop the pass.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.after)
	stale, err := s.store.Stale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale entries: %w", err)
	}

	evicted := 0
	for _, e := range stale {
		// Expire re-checks presence under the queue lock, so a caller
		// who left between the listing and now is a clean no-op.
		_, removed, err := s.engine.Expire(ctx, e.PhoneNumber, e.QueueName)
		if err != nil {
			s.log.Warn().Err(err).
				Str("queue", e.QueueName).
				Str("phone", e.PhoneNumber).
				Msg("expire failed")
			continue
		}
		if removed {
			evicted++
		}
	}

	if evicted > 0 {
		s.log.Info().Int("evicted", evicted).Msg("stale callers evicted")
	}
	return evicted, nil
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := s.Sweep(ctx); err != nil {
		s.log.Error().Err(err).Msg("sweep pass failed")
	}
}

// InitScheduler starts the cron scheduler with the periodic sweep.
// spec uses the six-field form with a seconds column.
func InitScheduler(s *Sweeper, spec string, log zerolog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule sweep %q: %w", spec, err)
	}
	c.Start()
	log.Info().Str("schedule", spec).Dur("stale_after", s.after).Msg("sweep scheduler started")
	return c, nil
}
