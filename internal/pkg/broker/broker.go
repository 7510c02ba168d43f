// Package broker fans database change events out to in-process subscribers.
//
// Events are delivered in publish order. A subscriber that cannot keep up is
// disconnected: its channel is closed so the consumer knows to reconnect and
// re-fetch instead of silently missing events.
package broker

import (
	"sync"
)

// Operation is the kind of row change reported by the database trigger.
type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Change is the message pushed to viewers. Table names the source table and
// ID the primary key of the changed row.
type Change struct {
	Table     string    `json:"table"`
	Operation Operation `json:"operation"`
	ID        string    `json:"id"`
}

// Predicate selects the changes a subscriber is interested in. A nil predicate accepts all.
type Predicate func(Change) bool

// DefaultBuffer is the per-subscriber queue length used when Subscribe is given zero.
const DefaultBuffer = 64

type subscriber struct {
	ch     chan Change
	accept Predicate
}

// Hub is a fan-out broker for Change events.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*subscriber
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscriber)}
}

// Subscribe registers a listener and returns its channel plus an unsubscribe
// function. Unsubscribe is safe to call more than once and after the hub or the
// subscription was closed.
func (h *Hub) Subscribe(accept Predicate, buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Change, buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = &subscriber{ch: ch, accept: accept}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.drop(id)
	}
}

// Publish delivers c to every interested subscriber without blocking.
// It returns how many subscribers were disconnected because their buffer was full.
func (h *Hub) Publish(c Change) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for id, sub := range h.subs {
		if sub.accept != nil && !sub.accept(c) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			h.drop(id)
			dropped++
		}
	}
	return dropped
}

// Reset disconnects every subscriber but keeps the hub open. The change feed
// calls it after a listener reconnect, since events may have been lost meanwhile.
func (h *Hub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id := range h.subs {
		h.drop(id)
	}
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id := range h.subs {
		h.drop(id)
	}
	h.closed = true
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// drop must be called with mu held.
func (h *Hub) drop(id uint64) {
	sub, ok := h.subs[id]
	if !ok {
		return
	}
	close(sub.ch)
	delete(h.subs, id)
}
