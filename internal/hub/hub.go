// Package hub is the in-memory, single-process pub/sub that fans live
// events out to connected clients. Durable state lives in storage; the hub
// only delivers best-effort nudges, so events published to absent or slow
// consumers are dropped, never queued unboundedly and never blocking the
// publisher.
package hub

import (
	"sync"

	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/murmur-dev/murmur/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	liveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_live_connections",
			Help: "Number of currently open live-event connections",
		},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_published_total",
			Help: "Total number of events enqueued to connections",
		},
		[]string{"type"},
	)

	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_events_dropped_total",
			Help: "Total number of events dropped due to a full connection queue",
		},
		[]string{"type"},
	)
)

// Connection is one subscriber handle. A user may hold several at once
// (multi-tab, multi-device); each gets its own FIFO queue.
type Connection struct {
	user   domain.UserId
	events chan domain.Event
}

// Events returns the connection's outbound queue. The channel is closed
// when the connection is unsubscribed.
func (c *Connection) Events() <-chan domain.Event {
	return c.events
}

func (c *Connection) User() domain.UserId {
	return c.user
}

type Hub struct {
	mu        sync.RWMutex
	conns     map[domain.UserId]map[*Connection]struct{}
	queueSize int
	closed    bool
}

func New(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 32
	}
	return &Hub{
		conns:     make(map[domain.UserId]map[*Connection]struct{}),
		queueSize: queueSize,
	}
}

// Subscribe opens a new connection for the user. After Close the returned
// connection is already closed, so transports shut down immediately.
func (h *Hub) Subscribe(userId domain.UserId) *Connection {
	c := &Connection{user: userId, events: make(chan domain.Event, h.queueSize)}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(c.events)
		return c
	}

	set, ok := h.conns[userId]
	if !ok {
		set = make(map[*Connection]struct{})
		h.conns[userId] = set
	}
	set[c] = struct{}{}
	liveConnections.Inc()
	return c
}

// Unsubscribe removes the connection and closes its queue. Idempotent:
// safe to call multiple times and safe to never call a second time from
// transport teardown paths that may race.
func (h *Hub) Unsubscribe(c *Connection) {
	if c == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[c.user]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, c.user)
	}
	// Close under the write lock: publishers send while holding the read
	// lock, so no send can be in flight here.
	close(c.events)
	liveConnections.Dec()
}

// Publish enqueues the event to every open connection of the user, in call
// order (each queue is FIFO). With no open connections the event is silently
// dropped. On a full queue the event is dropped for that connection only.
func (h *Hub) Publish(userId domain.UserId, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns[userId] {
		h.enqueue(c, event)
	}
}

// Broadcast enqueues the event to every open connection of every user.
func (h *Hub) Broadcast(event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.conns {
		for c := range set {
			h.enqueue(c, event)
		}
	}
}

func (h *Hub) enqueue(c *Connection, event domain.Event) {
	select {
	case c.events <- event:
		eventsPublished.WithLabelValues(string(event.Type)).Inc()
	default:
		eventsDropped.WithLabelValues(string(event.Type)).Inc()
		logger.Log.Warn("event dropped, connection queue full",
			"component", "hub",
			"event_type", event.Type,
			"user_id", c.user)
	}
}

// NumConnections reports the number of open connections for the user.
func (h *Hub) NumConnections(userId domain.UserId) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userId])
}

// Close shuts the hub down: every connection queue is closed so transports
// drain and exit. Subsequent Subscribe calls return already-closed handles.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.conns {
		for c := range set {
			close(c.events)
			liveConnections.Dec()
		}
	}
	h.conns = make(map[domain.UserId]map[*Connection]struct{})
}
