package queue

import (
	"context"

	"callqueue/internal/cache"
	"callqueue/internal/models"
	"callqueue/internal/store"
)

// Status is a caller's view of their own place in one queue. Position
// is nil when the caller is not waiting.
type Status struct {
	PhoneNumber string `json:"phone_number"`
	QueueName   string `json:"queue_name"`
	InQueue     bool   `json:"in_queue"`
	Position    *int   `json:"position"`
}

// Reader serves the read side: per-caller status, per-queue count and
// the cross-queue summary. It reads the store directly and is
// independent of the notifier.
type Reader struct {
	store store.Reader
	cache *cache.Summary
}

// NewReader creates a Reader. cache may be nil.
func NewReader(st store.Reader, c *cache.Summary) *Reader {
	return &Reader{store: st, cache: c}
}

// Status reports whether the caller is in the queue and at which
// position.
func (r *Reader) Status(ctx context.Context, phoneNumber, queueName string) (Status, error) {
	if phoneNumber == "" || queueName == "" {
		return Status{}, ErrEmptyIdentifier
	}
	status := Status{PhoneNumber: phoneNumber, QueueName: queueName}
	entry, err := r.store.Find(ctx, queueName, phoneNumber)
	if err != nil {
		return Status{}, err
	}
	if entry != nil {
		status.InQueue = true
		position := entry.Position
		status.Position = &position
	}
	return status, nil
}

// Count returns the queue's current occupant count. A queue nobody is
// waiting in counts zero.
func (r *Reader) Count(ctx context.Context, queueName string) (int, error) {
	if queueName == "" {
		return 0, ErrEmptyIdentifier
	}
	return r.store.Count(ctx, queueName)
}

// Summary lists every queue with at least one occupant and its count,
// serving from the cache when it is warm.
func (r *Reader) Summary(ctx context.Context) ([]models.QueueCount, error) {
	if rows, ok := r.cache.Get(ctx); ok {
		return rows, nil
	}
	rows, err := r.store.Summary(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, rows)
	return rows, nil
}
