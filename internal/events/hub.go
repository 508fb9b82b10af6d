package events

import "sync"

// BookingConfirmed is the in-process notification delivered to connected
// clients of the owning user.
type BookingConfirmed struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"-"`
	Status    string `json:"status"`
}

const subscriberBuffer = 16

type subscriber struct {
	userID string
	ch     chan BookingConfirmed
}

// Hub fans booking-confirmation events out to subscribers filtered by user
// id. Delivery is best-effort and at-most-once: a subscriber whose buffer is
// full misses the event.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a listener for the given user. The returned cancel
// function must run on every exit path of the consuming connection.
func (h *Hub) Subscribe(userID string) (<-chan BookingConfirmed, func()) {
	sub := &subscriber{userID: userID, ch: make(chan BookingConfirmed, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.ch)
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

func (h *Hub) Publish(event BookingConfirmed) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.userID != event.UserID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Slow consumer, skip. There is no replay buffer.
		}
	}
}

// Subscribers reports the number of registered listeners, for tests and
// diagnostics.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
