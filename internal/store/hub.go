package store

import (
	"sync"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/metrics"
)

// subscriber receives cart snapshots. The channel holds at most one pending
// snapshot; a newer one replaces an unread older one.
type subscriber struct {
	ch chan model.CartState
}

// Hub fans cart changes out to the subscribers of each session.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

// Subscribe registers interest in sessionID. The returned function removes
// the subscription and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(sessionID string) (<-chan model.CartState, func()) {
	sub := &subscriber{ch: make(chan model.CartState, 1)}

	h.mu.Lock()
	set, ok := h.subs[sessionID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[sessionID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()
	metrics.CartSubscribers.Inc()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[sessionID]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(h.subs, sessionID)
				}
			}
			close(sub.ch)
			metrics.CartSubscribers.Dec()
		})
	}
}

// Publish delivers state to every subscriber of sessionID without blocking.
func (h *Hub) Publish(sessionID string, state model.CartState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[sessionID] {
		snapshot := state.Clone()
		select {
		case sub.ch <- snapshot:
		default:
			// drop the stale snapshot, keep the latest
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- snapshot
		}
	}
}

// Count returns the number of live subscriptions across all sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}
