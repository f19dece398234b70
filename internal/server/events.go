// Package server defines the wire envelope and inbound payload types for the
// socket protocol, plus decoding helpers shared by the connection handlers.
package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Client-to-coordinator event names. Coordinator-to-client names live in the
// chat package next to the code that emits them; private_message is the one
// name used in both directions.
const (
	EventJoin           = "join"
	EventRestoreSession = "restore_session"
	EventJoinRoom       = "join_room"
	EventSendMessage    = "send_message"
	EventPrivateMessage = "private_message"
	EventTypingStart    = "typing_start"
	EventTypingStop     = "typing_stop"
	EventLeaveChat      = "leave_chat"
	EventPing           = "ping"
)

// Envelope is the framing for every event in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var errMissingEvent = errors.New("envelope has no event name")

// DecodeEvent parses a raw frame into an envelope.
func DecodeEvent(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed event frame: %w", err)
	}
	if env.Event == "" {
		return Envelope{}, errMissingEvent
	}
	return env, nil
}

// EncodeEvent frames an outbound event.
func EncodeEvent(event string, data any) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s payload: %w", event, err)
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

// JoinPayload asks to claim a display name.
type JoinPayload struct {
	Username string `json:"username" validate:"required"`
}

// RestorePayload presents a session token. Room is a client-side convenience
// echoed from its URL state; the coordinator derives the room from its own
// records.
type RestorePayload struct {
	Username string `json:"username" validate:"required"`
	Room     string `json:"room,omitempty"`
}

// JoinRoomPayload asks to enter a catalog room.
type JoinRoomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}

// SendMessagePayload carries public message content.
type SendMessagePayload struct {
	Content string `json:"content" validate:"required"`
}

// PrivateMessagePayload carries a point-to-point message.
type PrivateMessagePayload struct {
	To      string `json:"to" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// JoinErrorPayload is the body of a join_error or session_restore_failed
// event.
type JoinErrorPayload struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ErrorPayload is the generic typed error event for room and message
// operations.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New()

// decodePayload unmarshals and validates an inbound payload. Failures mean
// the frame was malformed and should be logged and ignored.
func decodePayload[T any](data json.RawMessage) (T, error) {
	var payload T
	if len(data) == 0 {
		return payload, errors.New("missing payload")
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("malformed payload: %w", err)
	}
	if err := validate.Struct(&payload); err != nil {
		return payload, fmt.Errorf("invalid payload: %w", err)
	}
	return payload, nil
}
