// Package queue implements position assignment and renumbering for
// named call queues. The Engine owns all mutations; the Reader serves
// the read side. Both sit on a store.Store, which provides the atomic
// units the engine's compound operations run in.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"callqueue/internal/cache"
	"callqueue/internal/metrics"
	"callqueue/internal/models"
	"callqueue/internal/notify"
	"callqueue/internal/store"
)

// Engine performs joins and leaves. Each mutation is one atomic store
// unit; the change notification fires after commit and can never fail
// the operation that triggered it.
type Engine struct {
	store    store.Store
	notifier *notify.Notifier
	cache    *cache.Summary
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// Config configures an Engine. Store is required; everything else may
// be left zero.
type Config struct {
	Store    store.Store
	Notifier *notify.Notifier
	Cache    *cache.Summary
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

// NewEngine creates an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Engine{
		store:    cfg.Store,
		notifier: cfg.Notifier,
		cache:    cfg.Cache,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}, nil
}

// Join adds the caller to the queue and returns the assigned position.
// The duplicate check, the occupant count and the insert are one atomic
// unit, so two concurrent joins to the same queue can never be assigned
// the same position. Returns ErrDuplicate when the caller is already in
// the queue.
func (e *Engine) Join(ctx context.Context, phoneNumber, queueName string) (int, error) {
	if phoneNumber == "" || queueName == "" {
		return 0, ErrEmptyIdentifier
	}

	var position int
	err := e.store.Atomic(ctx, queueName, func(tx store.Tx) error {
		existing, err := tx.Find(ctx, queueName, phoneNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicate
		}

		count, err := tx.Count(ctx, queueName)
		if err != nil {
			return err
		}
		position = count + 1

		return tx.Insert(ctx, &models.CallerEntry{
			PhoneNumber: phoneNumber,
			QueueName:   queueName,
			Position:    position,
		})
	})
	if err != nil {
		e.countJoin(queueName, err)
		return 0, err
	}

	e.countJoin(queueName, nil)
	e.logger.Info().
		Str("queue", queueName).
		Str("phone", phoneNumber).
		Int("position", position).
		Msg("caller joined")
	e.changed(ctx, notify.CallerJoined, queueName, phoneNumber, position)
	return position, nil
}

// Leave removes the caller and renumbers everyone behind them in the
// same atomic unit. A caller who is not in the queue is a normal
// outcome, not an error: Leave returns found=false and changes nothing.
// On success it returns the position the caller held before removal.
func (e *Engine) Leave(ctx context.Context, phoneNumber, queueName string) (int, bool, error) {
	return e.remove(ctx, phoneNumber, queueName, notify.CallerLeft)
}

// Expire removes a stale caller through the same path as Leave, tagging
// the change event so live listeners can tell an expiry from a normal
// departure. Used by the stale-entry sweeper.
func (e *Engine) Expire(ctx context.Context, phoneNumber, queueName string) (int, bool, error) {
	return e.remove(ctx, phoneNumber, queueName, notify.CallerExpired)
}

func (e *Engine) remove(ctx context.Context, phoneNumber, queueName string, change notify.ChangeType) (int, bool, error) {
	if phoneNumber == "" || queueName == "" {
		return 0, false, ErrEmptyIdentifier
	}

	var removed *models.CallerEntry
	err := e.store.Atomic(ctx, queueName, func(tx store.Tx) error {
		entry, err := tx.Find(ctx, queueName, phoneNumber)
		if err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		if err := tx.Delete(ctx, entry.ID); err != nil {
			return err
		}
		if err := tx.ShiftDown(ctx, queueName, entry.Position); err != nil {
			return err
		}
		removed = entry
		return nil
	})
	if err != nil {
		e.countLeave(queueName, "error")
		return 0, false, err
	}
	if removed == nil {
		e.countLeave(queueName, "not_found")
		return 0, false, nil
	}

	outcome := "removed"
	if change == notify.CallerExpired {
		outcome = "expired"
	}
	e.countLeave(queueName, outcome)
	e.logger.Info().
		Str("queue", queueName).
		Str("phone", phoneNumber).
		Int("position", removed.Position).
		Str("change", string(change)).
		Msg("caller removed")
	e.changed(ctx, change, queueName, phoneNumber, removed.Position)
	return removed.Position, true, nil
}

// changed runs after a committed mutation: it invalidates the summary
// cache, recomputes the summary and publishes the change. All of it is
// best-effort; a failure here never surfaces to the caller.
func (e *Engine) changed(ctx context.Context, change notify.ChangeType, queueName, phoneNumber string, position int) {
	// The mutation is committed; subscribers and the cache hear about
	// it even if the requester has already hung up.
	ctx = context.WithoutCancel(ctx)

	e.cache.Invalidate(ctx)

	summary, err := e.store.Summary(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Str("queue", queueName).Msg("summary recompute failed, change not broadcast")
		return
	}

	if e.metrics != nil {
		present := false
		for _, row := range summary {
			e.metrics.QueueOccupancy.WithLabelValues(row.QueueName).Set(float64(row.Count))
			if row.QueueName == queueName {
				present = true
			}
		}
		if !present {
			e.metrics.QueueOccupancy.WithLabelValues(queueName).Set(0)
		}
	}

	if e.notifier == nil {
		return
	}
	e.notifier.Publish(notify.Event{
		EventID:     uuid.NewString(),
		Type:        change,
		QueueName:   queueName,
		PhoneNumber: phoneNumber,
		Position:    position,
		Queues:      summary,
		OccurredAt:  time.Now().UTC(),
	})
}

func (e *Engine) countJoin(queueName string, err error) {
	if e.metrics == nil {
		return
	}
	outcome := "joined"
	switch {
	case err == nil:
	case errors.Is(err, ErrDuplicate):
		outcome = "duplicate"
	default:
		outcome = "error"
	}
	e.metrics.JoinsTotal.WithLabelValues(queueName, outcome).Inc()
}

func (e *Engine) countLeave(queueName, outcome string) {
	if e.metrics == nil {
		return
	}
	e.metrics.LeavesTotal.WithLabelValues(queueName, outcome).Inc()
}
