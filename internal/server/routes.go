// Package server wires the HTTP handlers into a router.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes configures the application router: health check and the
// WebSocket endpoint.
func SetupRoutes(hub *Hub, cfg Config, log *slog.Logger) *mux.Router {
	checker := NewOriginChecker(cfg.Origins(), log)

	r := mux.NewRouter()
	r.HandleFunc("/", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", NewWebSocketHandler(hub, checker)).Methods(http.MethodGet)
	return r
}
