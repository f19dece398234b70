// Package testhelpers provides shared utilities for the integration tests:
// building a full coordinator server, dialing WebSocket connections, and
// exchanging protocol events with timeouts.
package testhelpers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sahankit/chatkaro-app/internal/chat"
	"github.com/sahankit/chatkaro-app/internal/server"
)

// TestOrigin is the origin the test dialer presents and the test server
// allows by default.
const TestOrigin = "http://localhost:8080"

// Envelope mirrors the wire format: an event name plus an arbitrary payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// TestServer bundles a running HTTP server with the hub behind it so tests
// can shut both down cleanly.
type TestServer struct {
	HTTP *httptest.Server
	Hub  *server.Hub
}

// WSURL returns the ws:// URL of the server's WebSocket endpoint.
func (s *TestServer) WSURL() string {
	return "ws" + strings.TrimPrefix(s.HTTP.URL, "http") + "/ws"
}

// Close stops the HTTP server and shuts the hub down.
func (s *TestServer) Close() {
	s.HTTP.Close()
	_ = s.Hub.Shutdown(2 * time.Second)
}

// StartServer builds the full stack with defaults, applies any config
// mutation, and returns a running test server. Cleanup is registered on t.
func StartServer(t *testing.T, mutate func(*server.Config)) *TestServer {
	t.Helper()

	cfg := server.Config{AllowedOrigins: TestOrigin}
	cfg.Sanitize()
	if mutate != nil {
		mutate(&cfg)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	coordinator := chat.NewCoordinator(log, chat.DefaultCatalog(), chat.Options{
		HistoryLimit:     cfg.RoomHistoryLimit,
		MaxMessageLength: cfg.MaxMessageLength,
		SessionGrace:     cfg.SessionGrace,
	})

	hub := server.NewHub(log, coordinator, cfg)
	go hub.Run()

	ts := &TestServer{
		HTTP: httptest.NewServer(server.SetupRoutes(hub, cfg, log)),
		Hub:  hub,
	}
	t.Cleanup(ts.Close)
	return ts
}

// ConnectWebSocket dials the WebSocket endpoint with the test origin set.
func ConnectWebSocket(url string) (*websocket.Conn, error) {
	return ConnectWebSocketWithOrigin(url, TestOrigin)
}

// ConnectWebSocketWithOrigin dials with an explicit Origin header, or none
// when origin is empty.
func ConnectWebSocketWithOrigin(url, origin string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	headers := http.Header{}
	if origin != "" {
		headers.Set("Origin", origin)
	}

	conn, resp, err := dialer.Dial(url, headers)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// SendEvent writes one event envelope to the connection.
func SendEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()

	envelope := map[string]any{"event": event}
	if data != nil {
		envelope["data"] = data
	}
	if err := conn.WriteJSON(envelope); err != nil {
		t.Fatalf("Failed to send %s event: %v", event, err)
	}
}

// WaitForEvent reads frames until one with the given event name arrives,
// skipping unrelated events, and returns its payload. It fails the test if
// nothing matches within the timeout.
func WaitForEvent(t *testing.T, conn *websocket.Conn, event string, timeout time.Duration) json.RawMessage {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		if err := conn.SetReadDeadline(deadline); err != nil {
			t.Fatalf("Failed to set read deadline: %v", err)
		}

		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("Waiting for %s event: %v", event, err)
		}
		if env.Event == event {
			return env.Data
		}
	}
}

// ExpectNoEvent fails the test if the given event arrives within the window.
// Other events are skipped; a read timeout is the passing outcome.
func ExpectNoEvent(t *testing.T, conn *websocket.Conn, event string, window time.Duration) {
	t.Helper()

	deadline := time.Now().Add(window)
	for {
		if err := conn.SetReadDeadline(deadline); err != nil {
			t.Fatalf("Failed to set read deadline: %v", err)
		}

		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		if env.Event == event {
			t.Fatalf("Received unexpected %s event: %s", event, string(env.Data))
		}
	}
}

// DecodeData unmarshals an event payload into dst, failing the test on error.
func DecodeData(t *testing.T, data json.RawMessage, dst any) {
	t.Helper()
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("Failed to decode event payload %s: %v", string(data), err)
	}
}

// JoinAs connects a new client to the server and claims the given username,
// consuming the rooms_list and user_joined events along the way.
func JoinAs(t *testing.T, ts *TestServer, username string) *websocket.Conn {
	t.Helper()

	conn, err := ConnectWebSocket(ts.WSURL())
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	WaitForEvent(t, conn, "rooms_list", 2*time.Second)

	SendEvent(t, conn, "join", map[string]string{"username": username})
	WaitForEvent(t, conn, "user_joined", 2*time.Second)
	return conn
}

// JoinRoom moves an already identified connection into a room and returns
// the room_joined payload.
func JoinRoom(t *testing.T, conn *websocket.Conn, roomID string) json.RawMessage {
	t.Helper()

	SendEvent(t, conn, "join_room", map[string]string{"roomId": roomID})
	return WaitForEvent(t, conn, "room_joined", 2*time.Second)
}

// CloseWebSocket sends a close frame and closes the underlying connection.
func CloseWebSocket(conn *websocket.Conn) error {
	err := conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		return err
	}
	return conn.Close()
}

// MakeRequest executes an HTTP request against the test server and returns
// the response. It fails the test if the request cannot be completed.
func MakeRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(method, url, http.NoBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	return resp
}

// AssertStatusCode checks the HTTP response status.
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d", expected, resp.StatusCode)
	}
}

// ReadBody drains and returns the response body as a string.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}
