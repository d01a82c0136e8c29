package notify

import "sync"

type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

// Emitter fans user-facing notifications out to in-process subscribers.
// Send never blocks the caller: a subscriber that isn't keeping up drops
// notifications rather than stalling the request path.
type Emitter struct {
	mu   sync.Mutex
	subs map[chan Notification]struct{}
}

func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[chan Notification]struct{})}
}

// Subscribe returns a notification channel and a cancel func that must be
// called when the subscriber goes away.
func (e *Emitter) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 16)

	e.mu.Lock()
	e.subs[ch] = struct{}{}
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		delete(e.subs, ch)
		e.mu.Unlock()
	}
	return ch, cancel
}

func (e *Emitter) Send(n Notification) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for ch := range e.subs {
		select {
		case ch <- n:
		default:
			// subscriber buffer full, drop
		}
	}
}
