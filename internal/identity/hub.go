package identity

import (
	"sort"
	"sync"
)

// Hub fans session-change events out to subscribers. Delivery is
// synchronous and in subscription order; an unsubscribed callback is never
// invoked again.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(Event))}
}

func (h *Hub) Subscribe(fn func(Event)) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	return &hubSubscription{hub: h, id: id}
}

func (h *Hub) Emit(event Event) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	sort.Ints(ids)
	for _, id := range ids {
		h.mu.Lock()
		fn, ok := h.subs[id]
		h.mu.Unlock()
		if ok {
			fn(event)
		}
	}
}

type hubSubscription struct {
	hub  *Hub
	id   int
	once sync.Once
}

func (s *hubSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		delete(s.hub.subs, s.id)
	})
}
