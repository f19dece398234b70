package chat

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Message is a public room message. Immutable once created; the uuid id lets
// receivers drop duplicates under redelivery.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	From      string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsSystem  bool      `json:"isSystemMessage,omitempty"`
}

// PrivateMessage is a point-to-point message between two live identities.
// It is delivered to the recipient's connection only and never enters a
// room buffer.
type PrivateMessage struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomSnapshot is what a joining (or restoring) client receives: the room,
// its recent history, and the current member names including the newcomer.
type RoomSnapshot struct {
	RoomID   string    `json:"roomId"`
	RoomName string    `json:"roomName"`
	Messages []Message `json:"messages"`
	Users    []string  `json:"users"`
}

// RoomSummary is a catalog entry annotated with live occupancy for the
// rooms_list event.
type RoomSummary struct {
	CatalogRoom
	UserCount int `json:"userCount"`
}

// validateContent normalizes and bounds-checks message content.
func validateContent(content string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", ErrMessageTooLong
	}
	return trimmed, nil
}
