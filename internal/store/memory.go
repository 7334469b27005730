package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"callqueue/internal/models"
)

var _ Store = (*Memory)(nil)

// errOutsideUnit is returned when an atomic unit touches a queue other
// than the one it holds the lock for.
var errOutsideUnit = errors.New("store: operation outside the locked queue")

// Memory keeps all entries in process memory. It backs unit tests and
// the STORE_DRIVER=memory development mode; it honors the same Atomic
// contract as Postgres. Each atomic unit works on a copy of the queue's
// entries and swaps it in under the write lock on commit, so readers
// only ever see fully applied units.
type Memory struct {
	mu     sync.RWMutex
	queues map[string][]models.CallerEntry

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	nextID atomic.Uint64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		queues: make(map[string][]models.CallerEntry),
		locks:  make(map[string]*sync.Mutex),
	}
}

// queueLock returns the mutex serializing writers of one queue.
func (m *Memory) queueLock(queueName string) *sync.Mutex {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	l, ok := m.locks[queueName]
	if !ok {
		l = &sync.Mutex{}
		m.locks[queueName] = l
	}
	return l
}

func (m *Memory) Atomic(ctx context.Context, queueName string, fn func(tx Tx) error) error {
	l := m.queueLock(queueName)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	staging := append([]models.CallerEntry(nil), m.queues[queueName]...)
	m.mu.RUnlock()

	tx := &memTx{store: m, queue: queueName, entries: staging}
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	if len(tx.entries) == 0 {
		delete(m.queues, queueName)
	} else {
		m.queues[queueName] = tx.entries
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Find(_ context.Context, queueName, phoneNumber string) (*models.CallerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.queues[queueName] {
		if e.PhoneNumber == phoneNumber {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

func (m *Memory) Count(_ context.Context, queueName string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.queues[queueName]), nil
}

func (m *Memory) Entries(_ context.Context, queueName string) ([]models.CallerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := append([]models.CallerEntry(nil), m.queues[queueName]...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	return entries, nil
}

func (m *Memory) Summary(_ context.Context) ([]models.QueueCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary := make([]models.QueueCount, 0, len(m.queues))
	for name, entries := range m.queues {
		summary = append(summary, models.QueueCount{QueueName: name, Count: len(entries)})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].QueueName < summary[j].QueueName })
	return summary, nil
}

func (m *Memory) Stale(_ context.Context, cutoff time.Time) ([]models.CallerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stale []models.CallerEntry
	for _, entries := range m.queues {
		for _, e := range entries {
			if e.CreatedAt.Before(cutoff) {
				stale = append(stale, e)
			}
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	return stale, nil
}

// memTx mutates the staging copy of one queue. Nothing it does is
// visible until Atomic commits.
type memTx struct {
	store   *Memory
	queue   string
	entries []models.CallerEntry
}

func (tx *memTx) Find(_ context.Context, queueName, phoneNumber string) (*models.CallerEntry, error) {
	if queueName != tx.queue {
		return nil, errOutsideUnit
	}
	for _, e := range tx.entries {
		if e.PhoneNumber == phoneNumber {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

func (tx *memTx) Count(_ context.Context, queueName string) (int, error) {
	if queueName != tx.queue {
		return 0, errOutsideUnit
	}
	return len(tx.entries), nil
}

func (tx *memTx) Insert(_ context.Context, entry *models.CallerEntry) error {
	if entry.QueueName != tx.queue {
		return errOutsideUnit
	}
	entry.ID = uint(tx.store.nextID.Add(1))
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	tx.entries = append(tx.entries, *entry)
	return nil
}

func (tx *memTx) Delete(_ context.Context, id uint) error {
	for i, e := range tx.entries {
		if e.ID == id {
			tx.entries = append(tx.entries[:i], tx.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (tx *memTx) ShiftDown(_ context.Context, queueName string, abovePosition int) error {
	if queueName != tx.queue {
		return errOutsideUnit
	}
	for i := range tx.entries {
		if tx.entries[i].Position > abovePosition {
			tx.entries[i].Position--
		}
	}
	return nil
}
