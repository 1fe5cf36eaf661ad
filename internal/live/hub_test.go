package live

import (
	"testing"
	"time"

	"github.com/goline/ams/internal/types"
)

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe()
	defer unsub()

	h.Broadcast([]types.Product{{ID: "p-1", Name: "Áo thun", Price: 150000}})

	select {
	case msg := <-ch:
		if msg.Type != "products" || len(msg.Items) != 1 {
			t.Errorf("msg = %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	_, unsub := h.Subscribe()
	unsub()
	if n := h.SubscriberCount(); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
	// Broadcast to no one must not panic or block.
	h.Broadcast(nil)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	_, unsub := h.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Broadcast([]types.Product{{ID: "p", Name: "x"}})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}
}
