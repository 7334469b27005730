package notify

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callqueue/internal/models"
)

func newTestNotifier(buffer int) *Notifier {
	return New(Config{Buffer: buffer, Logger: zerolog.Nop()})
}

func recv(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case evt, ok := <-sub.C():
		require.True(t, ok, "channel closed unexpectedly")
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	n := newTestNotifier(0)
	defer n.Close()

	a := n.Subscribe()
	b := n.Subscribe()
	assert.Equal(t, 2, n.Subscribers())
	assert.NotEqual(t, a.ID(), b.ID())

	evt := Event{
		EventID:   "evt-1",
		Type:      CallerJoined,
		QueueName: "Sales",
		Position:  1,
		Queues:    []models.QueueCount{{QueueName: "Sales", Count: 1}},
	}
	n.Publish(evt)

	assert.Equal(t, evt, recv(t, a))
	assert.Equal(t, evt, recv(t, b))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := newTestNotifier(0)
	defer n.Close()

	sub := n.Subscribe()
	n.Unsubscribe(sub)
	assert.Zero(t, n.Subscribers())

	_, ok := <-sub.C()
	assert.False(t, ok, "channel must be closed after unsubscribe")

	// A second unsubscribe of the same subscription is harmless.
	n.Unsubscribe(sub)
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	n := newTestNotifier(1)
	defer n.Close()

	slow := n.Subscribe()
	fast := n.Subscribe()

	// The first event fills slow's one-slot buffer. fast drains it
	// right away, so only slow is full when the second event lands.
	n.Publish(Event{EventID: "evt-1", Type: CallerJoined})
	assert.Equal(t, "evt-1", recv(t, fast).EventID)

	n.Publish(Event{EventID: "evt-2", Type: CallerLeft})
	assert.Equal(t, 1, n.Subscribers(), "the slow subscriber must be dropped")
	assert.Equal(t, "evt-2", recv(t, fast).EventID)

	// The slow subscriber keeps its buffered event and then the close.
	assert.Equal(t, "evt-1", recv(t, slow).EventID)
	_, ok := <-slow.C()
	assert.False(t, ok)
}

func TestPublishNeverBlocks(t *testing.T) {
	n := newTestNotifier(1)
	defer n.Close()

	n.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			n.Publish(Event{Type: CallerJoined})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on an undrained subscriber")
	}
}

func TestCloseDropsEverySubscriber(t *testing.T) {
	n := newTestNotifier(0)

	a := n.Subscribe()
	b := n.Subscribe()
	n.Close()

	_, ok := <-a.C()
	assert.False(t, ok)
	_, ok = <-b.C()
	assert.False(t, ok)
	assert.Zero(t, n.Subscribers())

	// Closing twice is safe.
	n.Close()
}

func TestSubscribeAfterClose(t *testing.T) {
	n := newTestNotifier(0)
	n.Close()

	sub := n.Subscribe()
	_, ok := <-sub.C()
	assert.False(t, ok, "post-shutdown subscriptions arrive already closed")
	assert.Zero(t, n.Subscribers())
}
