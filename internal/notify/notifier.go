// Package notify fans queue change events out to live subscribers. It
// deliberately knows nothing about who subscribes: the WebSocket layer,
// tests and anything else all attach through the same Subscription.
package notify

import (
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"callqueue/internal/metrics"
	"callqueue/internal/models"
)

// DefaultBuffer is the per-subscriber event buffer size.
const DefaultBuffer = 16

// ChangeType says what happened to a queue.
type ChangeType string

const (
	CallerJoined  ChangeType = "caller_joined"
	CallerLeft    ChangeType = "caller_left"
	CallerExpired ChangeType = "caller_expired"

	// SummarySnapshot is not a queue change: it is the state frame a
	// live client receives right after connecting.
	SummarySnapshot ChangeType = "summary_snapshot"
)

// Event is one committed queue change plus the recomputed cross-queue
// summary. Subscribers only ever see events for fully committed
// mutations.
type Event struct {
	EventID     string              `json:"event_id"`
	Type        ChangeType          `json:"event_type"`
	QueueName   string              `json:"queue_name"`
	PhoneNumber string              `json:"phone_number"`
	Position    int                 `json:"position"`
	Queues      []models.QueueCount `json:"queues"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// Subscription is one live listener. Its channel is closed when the
// subscriber is unsubscribed, dropped for falling behind, or the
// notifier shuts down.
type Subscription struct {
	id string
	ch chan Event
}

// ID returns the subscription id.
func (s *Subscription) ID() string { return s.id }

// C returns the channel events are delivered on.
func (s *Subscription) C() <-chan Event { return s.ch }

// Notifier is the process-wide change fan-out. Created once at startup;
// its subscriber set is protected by its own mutex, never by store
// locks, so a publish cannot delay a join or leave.
type Notifier struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool

	buffer  int
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// Config configures a Notifier.
type Config struct {
	// Buffer is the per-subscriber channel capacity. Defaults to
	// DefaultBuffer.
	Buffer  int
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// New creates a Notifier.
func New(cfg Config) *Notifier {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	return &Notifier{
		subs:    make(map[*Subscription]struct{}),
		buffer:  cfg.Buffer,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Subscribe registers a new listener. After shutdown the returned
// subscription carries an already-closed channel.
func (n *Notifier) Subscribe() *Subscription {
	id, _ := gonanoid.New()
	sub := &Subscription{id: id, ch: make(chan Event, n.buffer)}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		close(sub.ch)
		return sub
	}
	n.subs[sub] = struct{}{}
	n.mu.Unlock()

	if n.metrics != nil {
		n.metrics.LiveSubscribers.Inc()
	}
	n.logger.Debug().Str("subscriber", sub.id).Msg("subscribed")
	return sub
}

// Unsubscribe removes a listener and closes its channel. Safe to call
// for a subscription that was already dropped.
func (n *Notifier) Unsubscribe(sub *Subscription) {
	n.mu.Lock()
	_, ok := n.subs[sub]
	if ok {
		delete(n.subs, sub)
		close(sub.ch)
	}
	n.mu.Unlock()

	if ok {
		if n.metrics != nil {
			n.metrics.LiveSubscribers.Dec()
		}
		n.logger.Debug().Str("subscriber", sub.id).Msg("unsubscribed")
	}
}

// Publish delivers evt to every subscriber. Fire-and-forget: a
// subscriber whose buffer is full is closed and dropped so it can never
// stall the others or the caller.
func (n *Notifier) Publish(evt Event) {
	n.mu.Lock()
	for sub := range n.subs {
		select {
		case sub.ch <- evt:
		default:
			delete(n.subs, sub)
			close(sub.ch)
			if n.metrics != nil {
				n.metrics.EventsDroppedTotal.Inc()
				n.metrics.LiveSubscribers.Dec()
			}
			n.logger.Warn().Str("subscriber", sub.id).Msg("subscriber too slow, dropped")
		}
	}
	n.mu.Unlock()
}

// Subscribers returns the current subscriber count.
func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Close drops every subscriber and rejects new ones. Used at shutdown
// so live clients drain and disconnect.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	for sub := range n.subs {
		delete(n.subs, sub)
		close(sub.ch)
		if n.metrics != nil {
			n.metrics.LiveSubscribers.Dec()
		}
	}
	n.mu.Unlock()
	n.logger.Info().Msg("notifier closed")
}
