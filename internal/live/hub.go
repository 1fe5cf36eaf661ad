// Package live pushes product-store mutations to subscribed grids over
// WebSocket, so an open product page observes creates and edits without a
// reload.
package live

import (
	"context"
	"sync"

	"github.com/goline/ams/internal/types"
)

// ServerMessage is one frame pushed to a subscriber.
type ServerMessage struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Items     []types.Product `json:"items,omitempty"`
}

// ClientMessage is one frame read from a subscriber.
type ClientMessage struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// Hub fans product updates out to all connected subscribers. A slow
// subscriber drops frames instead of blocking the store mutation path.
type Hub struct {
	mu   sync.Mutex
	subs map[chan ServerMessage]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan ServerMessage]struct{})}
}

// Broadcast sends the current product list to every subscriber.
func (h *Hub) Broadcast(products []types.Product) {
	msg := ServerMessage{Type: "products", Items: products}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			// Subscriber is behind; it will catch up on the next mutation.
		}
	}
}

// Subscribe registers a new subscriber channel and returns it with an
// unsubscribe func.
func (h *Hub) Subscribe() (<-chan ServerMessage, func()) {
	ch := make(chan ServerMessage, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// SubscriberCount reports the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// watch forwards hub frames to send until ctx is done or the channel drains
// away with the subscription.
func watch(ctx context.Context, ch <-chan ServerMessage, send func(ServerMessage) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := send(msg); err != nil {
				return
			}
		}
	}
}
