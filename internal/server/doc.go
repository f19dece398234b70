// Package server implements the WebSocket transport for the ChatKaro
// coordinator: connection upgrade, per-connection pumps and rate limiting,
// the JSON event envelope, and graceful shutdown. All chat semantics live in
// the chat package; this package only moves events between sockets and the
// coordinator.
package server
