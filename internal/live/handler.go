package live

import (
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/goline/ams/internal/obs"
)

// Handler upgrades HTTP requests to WebSocket subscriptions on a Hub.
type Handler struct {
	hub *Hub
}

// NewHandler creates a WebSocket handler for the given hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeHTTP upgrades to WebSocket, streams product updates, and answers
// pings until the client goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		obs.Logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	ch, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	// Writer: forward broadcasts.
	go watch(ctx, ch, func(msg ServerMessage) error {
		return wsjson.Write(ctx, conn, msg)
	})

	// Reader: the message loop owns the connection lifetime.
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 {
				obs.Logger.Info("websocket closed", "status", fmt.Sprint(websocket.CloseStatus(err)))
			}
			return
		}
		switch msg.Type {
		case "ping":
			if err := wsjson.Write(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID}); err != nil {
				return
			}
		default:
			// Unknown client frames are ignored; the protocol is push-first.
		}
	}
}
