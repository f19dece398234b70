// Package server exposes the HTTP handlers: the WebSocket upgrade endpoint
// and the health check.
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// NewWebSocketHandler builds the upgrade handler. Each accepted connection
// becomes a Client registered with the hub, which launches its pumps.
func NewWebSocketHandler(hub *Hub, checker *OriginChecker) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checker.Check,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn("websocket upgrade failed", "addr", r.RemoteAddr, "err", err)
			return
		}
		hub.Register(NewClient(conn, hub, r.RemoteAddr))
	}
}

// HealthHandler reports process liveness in plain text.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprint(w, "ChatKaro coordinator is running!")
}
