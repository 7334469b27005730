// Package ws serves the live summary feed. Each WebSocket client gets
// the current summary on connect and then every committed queue change
// until it disconnects or falls too far behind.
package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"callqueue/internal/notify"
	"callqueue/internal/queue"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second
	// Ping period, must be less than pongWait.
	pingPeriod = 54 * time.Second
	// Clients only ever send control chatter, never payloads.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Live upgrades HTTP requests and bridges notifier subscriptions onto
// WebSocket connections.
type Live struct {
	notifier *notify.Notifier
	reader   *queue.Reader
	log      zerolog.Logger
}

func NewLive(notifier *notify.Notifier, reader *queue.Reader, log zerolog.Logger) *Live {
	return &Live{
		notifier: notifier,
		reader:   reader,
		log:      log.With().Str("component", "ws").Logger(),
	}
}

// Handler upgrades the connection, subscribes it to queue changes and
// runs the read and write pumps until the peer goes away.
func (l *Live) Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		l.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// Subscribe before reading the summary so no change slips between
	// the snapshot and the first forwarded event. A change landing in
	// both is harmless: every frame carries the full summary.
	sub := l.notifier.Subscribe()

	cl := &client{
		conn:     conn,
		sub:      sub,
		notifier: l.notifier,
		log:      l.log.With().Str("subscriber", sub.ID()).Logger(),
	}

	if rows, err := l.reader.Summary(c.Request.Context()); err == nil {
		cl.snapshot = &notify.Event{
			EventID:    uuid.NewString(),
			Type:       notify.SummarySnapshot,
			Queues:     rows,
			OccurredAt: time.Now().UTC(),
		}
	} else {
		// The client still gets a summary with the next change.
		l.log.Warn().Err(err).Msg("snapshot unavailable, streaming without it")
	}

	cl.log.Debug().Msg("client connected")
	go cl.writePump()
	cl.readPump()
}

// client is one live connection.
type client struct {
	conn     *websocket.Conn
	sub      *notify.Subscription
	notifier *notify.Notifier
	snapshot *notify.Event
	log      zerolog.Logger
}

// readPump discards inbound frames and watches for disconnect. When
// the peer goes away the subscription is dropped, which in turn shuts
// down the write pump.
func (c *client) readPump() {
	defer func() {
		c.notifier.Unsubscribe(c.sub)
		c.conn.Close()
		c.log.Debug().Msg("client disconnected")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends the snapshot, then forwards subscription events and
// keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	if c.snapshot != nil {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(c.snapshot); err != nil {
			return
		}
	}

	for {
		select {
		case evt, ok := <-c.sub.C():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Unsubscribed, dropped, or the notifier shut down.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
