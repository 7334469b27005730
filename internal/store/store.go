// Package store holds the durable position records behind the queue
// engine. Implementations must make Atomic a true critical section per
// queue name: the engine's read-count-then-insert and delete-then-shift
// sequences run inside it and rely on never interleaving with another
// writer on the same queue. Mutations are only reachable through a Tx,
// so nothing can change an entry outside an atomic unit.
package store

import (
	"context"
	"time"

	"callqueue/internal/models"
)

// Reader is the read-only view of the store. Reads run outside any
// atomic unit with read-committed consistency: they may race with
// writers but never observe a half-applied renumbering.
type Reader interface {
	// Find returns the entry for (queueName, phoneNumber), or nil when
	// the caller is not in the queue.
	Find(ctx context.Context, queueName, phoneNumber string) (*models.CallerEntry, error)

	// Count returns the current occupant count of the queue.
	Count(ctx context.Context, queueName string) (int, error)

	// Entries returns the queue's occupants ordered by position.
	Entries(ctx context.Context, queueName string) ([]models.CallerEntry, error)

	// Summary returns the occupant count of every queue that currently
	// has at least one entry, ordered by queue name.
	Summary(ctx context.Context) ([]models.QueueCount, error)

	// Stale returns entries created before cutoff, across all queues.
	Stale(ctx context.Context, cutoff time.Time) ([]models.CallerEntry, error)
}

// Tx is the operation set available inside an atomic unit. Mutations
// performed through a Tx become visible to readers all at once when the
// unit commits, or not at all.
type Tx interface {
	Find(ctx context.Context, queueName, phoneNumber string) (*models.CallerEntry, error)
	Count(ctx context.Context, queueName string) (int, error)

	// Insert stores a new entry. The caller assigns Position; the store
	// fills ID and CreatedAt.
	Insert(ctx context.Context, entry *models.CallerEntry) error

	// Delete removes an entry by its surrogate id.
	Delete(ctx context.Context, id uint) error

	// ShiftDown decrements Position by one for every entry of the queue
	// whose position is greater than abovePosition.
	ShiftDown(ctx context.Context, queueName string, abovePosition int) error
}

// Store is the durable position store.
type Store interface {
	Reader

	// Atomic runs fn as one atomic unit serialized per queue name: two
	// units for the same queue never interleave, units for different
	// queues proceed in parallel. fn must only touch queueName. If fn
	// returns an error the store is left exactly as it was.
	Atomic(ctx context.Context, queueName string, fn func(tx Tx) error) error
}
