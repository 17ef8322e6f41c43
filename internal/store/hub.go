package store

import "sync"

// Hub fans session-change events out to subscribers in subscription
// order. Callbacks run synchronously on the emitting goroutine, so an
// event is fully handled before the operation that produced it
// returns. Implementations emit from the goroutine that performed the
// sign-in or sign-out, which preserves the ordering the SessionStore
// contract promises.
type Hub struct {
	mu    sync.Mutex
	next  int
	subs  map[int]func(*Identity)
	order []int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(*Identity))}
}

func (h *Hub) Subscribe(fn func(*Identity)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.order = append(h.order, id)
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
		for i, v := range h.order {
			if v == id {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers the event to every subscriber. A nil identity signals
// the end of the session.
func (h *Hub) Emit(id *Identity) {
	h.mu.Lock()
	fns := make([]func(*Identity), 0, len(h.order))
	for _, key := range h.order {
		if fn, ok := h.subs[key]; ok {
			fns = append(fns, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}
