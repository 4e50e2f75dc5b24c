package app

import (
	"sync"

	"classroom-quiz-service/internal/domain"
)

// StatusHub fans session status updates out to live subscribers.
type StatusHub struct {
	mu          sync.Mutex
	subscribers map[chan domain.SessionStatus]struct{}
}

func NewStatusHub() *StatusHub {
	return &StatusHub{subscribers: make(map[chan domain.SessionStatus]struct{})}
}

func (h *StatusHub) subscribe(initial domain.SessionStatus) (<-chan domain.SessionStatus, func()) {
	ch := make(chan domain.SessionStatus, 4)
	ch <- initial

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers status to every subscriber without blocking.
// A full subscriber loses its oldest pending update.
func (h *StatusHub) Publish(status domain.SessionStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- status:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- status
		}
	}
}

func (h *StatusHub) hasSubscribers() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers) > 0
}
