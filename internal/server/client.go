// Package server manages individual WebSocket connections: read/write
// pumps, liveness deadlines, rate limiting, and dispatch of protocol events
// into the chat coordinator.
package server

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sahankit/chatkaro-app/internal/chat"
)

const (
	// A connection that produces no frame (including pong replies to our
	// pings) within this window is considered lost.
	readDeadline = 60 * time.Second
	// Transport pings go out well inside the read window.
	pingInterval = 54 * time.Second

	writeDeadline = 10 * time.Second
)

// Client is one WebSocket connection. It implements chat.Sink so the
// coordinator can push events to it without knowing about the transport.
type Client struct {
	conn    *websocket.Conn
	hub     *Hub
	addr    string
	limiter *rateLimiter

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	idMu     sync.RWMutex
	identity *chat.Identity
}

func NewClient(conn *websocket.Conn, hub *Hub, addr string) *Client {
	if conn != nil {
		conn.SetReadLimit(hub.cfg.MaxFrameSize)
	}
	return &Client{
		conn:    conn,
		hub:     hub,
		addr:    addr,
		limiter: newRateLimiter(hub.cfg.RateLimitBurst, hub.cfg.RateLimitRefill),
		send:    make(chan []byte, hub.cfg.SendBufferSize),
		done:    make(chan struct{}),
	}
}

// Send enqueues an event for delivery, best effort. It never blocks: a full
// buffer or a closed connection just reports false, so a slow receiver
// cannot stall the coordinator.
func (c *Client) Send(event string, data any) bool {
	payload, err := EncodeEvent(event, data)
	if err != nil {
		c.hub.log.Error("failed to encode event", "event", event, "err", err)
		return false
	}

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// close stops the write pump and refuses further sends. Idempotent.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) identityID() string {
	c.idMu.RLock()
	defer c.idMu.RUnlock()
	if c.identity == nil {
		return ""
	}
	return c.identity.ID
}

func (c *Client) setIdentity(identity *chat.Identity) {
	c.idMu.Lock()
	c.identity = identity
	c.idMu.Unlock()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.closeConnection()
	}()

	if err := c.conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		c.hub.log.Warn("failed to set read deadline", "addr", c.addr, "err", err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		if !c.limiter.allow() {
			c.hub.log.Warn("rate limit exceeded, discarding event", "addr", c.addr)
			continue
		}

		c.handleEvent(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case payload := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				if !isExpectedCloseError(err) {
					c.hub.log.Warn("write failed", "addr", c.addr, "err", err)
				}
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) closeConnection() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
		c.hub.log.Debug("error closing connection", "addr", c.addr, "err", err)
	}
}

func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.hub.log.Warn("frame exceeded maximum size", "addr", c.addr, "limit", c.hub.cfg.MaxFrameSize)
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure):
		c.hub.log.Info("client disconnected", "addr", c.addr)
	case errors.Is(err, io.EOF), isExpectedCloseError(err):
		c.hub.log.Info("client connection closed", "addr", c.addr)
	default:
		c.hub.log.Warn("websocket read error", "addr", c.addr, "err", err)
	}
}

// handleEvent dispatches one inbound frame. Malformed or unknown events are
// logged and ignored; they never terminate the connection.
func (c *Client) handleEvent(raw []byte) {
	env, err := DecodeEvent(raw)
	if err != nil {
		c.hub.log.Debug("ignoring malformed frame", "addr", c.addr, "err", err)
		return
	}

	switch env.Event {
	case EventJoin:
		c.handleJoin(env.Data)
	case EventRestoreSession:
		c.handleRestore(env.Data)
	case EventJoinRoom:
		c.handleJoinRoom(env.Data)
	case EventSendMessage:
		c.handleSendMessage(env.Data)
	case EventPrivateMessage:
		c.handlePrivateMessage(env.Data)
	case EventTypingStart:
		if id := c.identityID(); id != "" {
			c.hub.coordinator.StartTyping(id)
		}
	case EventTypingStop:
		if id := c.identityID(); id != "" {
			c.hub.coordinator.StopTyping(id)
		}
	case EventLeaveChat:
		c.handleLeaveChat()
	case EventPing:
		c.Send(chat.EventPong, nil)
	default:
		c.hub.log.Debug("ignoring unknown event", "addr", c.addr, "event", env.Event)
	}
}

func (c *Client) handleJoin(data []byte) {
	if c.identityID() != "" {
		c.hub.log.Debug("ignoring join from identified connection", "addr", c.addr)
		return
	}
	payload, err := decodePayload[JoinPayload](data)
	if err != nil {
		c.hub.log.Debug("ignoring bad join payload", "addr", c.addr, "err", err)
		return
	}

	identity, err := c.hub.coordinator.Join(c, payload.Username)
	if err != nil {
		var taken *chat.NameTakenError
		if errors.As(err, &taken) {
			c.Send(chat.EventJoinError, JoinErrorPayload{
				Message:     "This username is already taken. Try one of these:",
				Suggestions: taken.Suggestions,
			})
			return
		}
		c.Send(chat.EventJoinError, JoinErrorPayload{Message: err.Error()})
		return
	}

	c.setIdentity(identity)
	c.Send(chat.EventUserJoined, identity)
}

func (c *Client) handleRestore(data []byte) {
	if c.identityID() != "" {
		c.hub.log.Debug("ignoring restore from identified connection", "addr", c.addr)
		return
	}
	payload, err := decodePayload[RestorePayload](data)
	if err != nil {
		c.hub.log.Debug("ignoring bad restore payload", "addr", c.addr, "err", err)
		return
	}

	identity, room, err := c.hub.coordinator.Restore(c, payload.Username)
	if err != nil {
		c.Send(chat.EventSessionRestoreFailed, JoinErrorPayload{Message: err.Error()})
		return
	}

	c.setIdentity(identity)
	c.Send(chat.EventSessionRestored, chat.SessionSnapshot{User: identity, CurrentRoom: room})
}

func (c *Client) handleJoinRoom(data []byte) {
	id := c.identityID()
	if id == "" {
		return
	}
	payload, err := decodePayload[JoinRoomPayload](data)
	if err != nil {
		c.hub.log.Debug("ignoring bad join_room payload", "addr", c.addr, "err", err)
		return
	}

	snapshot, err := c.hub.coordinator.JoinRoom(id, payload.RoomID)
	if err != nil {
		c.sendOpError(err)
		return
	}
	c.Send(chat.EventRoomJoined, snapshot)
}

func (c *Client) handleSendMessage(data []byte) {
	id := c.identityID()
	if id == "" {
		return
	}
	payload, err := decodePayload[SendMessagePayload](data)
	if err != nil {
		c.hub.log.Debug("ignoring bad send_message payload", "addr", c.addr, "err", err)
		return
	}

	if _, err := c.hub.coordinator.SendRoomMessage(id, payload.Content); err != nil {
		c.sendOpError(err)
	}
}

func (c *Client) handlePrivateMessage(data []byte) {
	id := c.identityID()
	if id == "" {
		return
	}
	payload, err := decodePayload[PrivateMessagePayload](data)
	if err != nil {
		c.hub.log.Debug("ignoring bad private_message payload", "addr", c.addr, "err", err)
		return
	}

	if _, err := c.hub.coordinator.SendPrivateMessage(id, payload.To, payload.Content); err != nil {
		c.sendOpError(err)
	}
}

// handleLeaveChat tears the identity down immediately instead of waiting for
// the liveness timeout, so clean departures leave no ghost presence behind.
func (c *Client) handleLeaveChat() {
	id := c.identityID()
	if id == "" {
		return
	}
	c.hub.coordinator.Disconnect(id, c)
	c.setIdentity(nil)
}

func (c *Client) sendOpError(err error) {
	c.Send(chat.EventError, ErrorPayload{Code: errorCode(err), Message: err.Error()})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, chat.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, chat.ErrNameTaken):
		return "name_taken"
	case errors.Is(err, chat.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, chat.ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, chat.ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, chat.ErrMessageTooLong):
		return "message_too_long"
	case errors.Is(err, chat.ErrRecipientNotFound):
		return "recipient_not_found"
	case errors.Is(err, chat.ErrRestoreFailed):
		return "restore_failed"
	default:
		return "internal"
	}
}

// isExpectedCloseError checks for the error strings that routinely show up
// when either side closes a connection mid-operation.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "websocket: close sent") ||
		strings.Contains(msg, "broken pipe")
}
