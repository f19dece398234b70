package chat

import (
	"fmt"

	"github.com/google/uuid"
)

// SendRoomMessage validates, records, and broadcasts a public message to
// every member of the sender's current room, sender included. Sending also
// clears the sender's typing state, so a message never leaves its author
// stuck as "is typing".
func (c *Coordinator) SendRoomMessage(identityID, content string) (Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, ok := c.identities[identityID]
	if !ok {
		return Message{}, ErrNotInRoom
	}
	roomID, ok := c.residency[identityID]
	if !ok {
		return Message{}, ErrNotInRoom
	}

	body, err := validateContent(content, c.opts.MaxMessageLength)
	if err != nil {
		return Message{}, err
	}

	room := c.rooms[roomID]
	msg := Message{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		From:      identity.DisplayName,
		Content:   body,
		Timestamp: c.now().UTC(),
	}
	room.appendMessage(msg)
	c.stopTypingLocked(identity, room)
	c.broadcastRoom(room, "", EventNewMessage, msg)
	return msg, nil
}

// SendPrivateMessage delivers a message to the named recipient's connection
// only. Neither party needs to share a room; nothing is persisted.
func (c *Coordinator) SendPrivateMessage(identityID, to, content string) (PrivateMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, ok := c.identities[identityID]
	if !ok {
		return PrivateMessage{}, fmt.Errorf("private_message: unknown sender %q", identityID)
	}

	body, err := validateContent(content, c.opts.MaxMessageLength)
	if err != nil {
		return PrivateMessage{}, err
	}

	recipient, ok := c.registry.Lookup(to)
	if !ok {
		return PrivateMessage{}, ErrRecipientNotFound
	}
	sink, ok := c.conns[recipient.ID]
	if !ok {
		return PrivateMessage{}, ErrRecipientNotFound
	}

	pm := PrivateMessage{
		ID:        uuid.NewString(),
		From:      identity.DisplayName,
		To:        recipient.DisplayName,
		Content:   body,
		Timestamp: c.now().UTC(),
	}
	if !sink.Send(EventPrivateMessage, pm) {
		c.log.Debug("dropped private message for slow receiver", "to", recipient.DisplayName)
	}
	return pm, nil
}
