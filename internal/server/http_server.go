// Package server constructs and tears down the HTTP server that fronts the
// WebSocket endpoint.
package server

import (
	"context"
	"net/http"
	"time"
)

// NewHTTPServer creates the HTTP server with production timeout defaults.
// WriteTimeout is deliberately absent: it would sever long-lived WebSocket
// connections; per-write deadlines are handled in the write pump instead.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// ShutdownServer gracefully stops the HTTP server, waiting up to timeout
// for in-flight requests.
func ShutdownServer(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return server.Shutdown(ctx)
}
