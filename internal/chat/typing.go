package chat

// StartTyping marks the identity as composing in its current room and tells
// the other members. Idempotent: repeated starts do not re-broadcast.
// Roomless or unknown identities are ignored; typing state is ephemeral and
// not worth an error round trip.
func (c *Coordinator) StartTyping(identityID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, room := c.typingContextLocked(identityID)
	if room == nil {
		return
	}
	if _, already := room.typing[identityID]; already {
		return
	}
	room.typing[identityID] = struct{}{}
	c.broadcastRoom(room, identityID, EventUserTyping, identity.DisplayName)
}

// StopTyping clears the composing mark. Idempotent.
func (c *Coordinator) StopTyping(identityID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, room := c.typingContextLocked(identityID)
	if room == nil {
		return
	}
	c.stopTypingLocked(identity, room)
}

func (c *Coordinator) stopTypingLocked(identity *Identity, room *roomState) {
	if _, composing := room.typing[identity.ID]; !composing {
		return
	}
	delete(room.typing, identity.ID)
	c.broadcastRoom(room, identity.ID, EventUserStoppedTyping, identity.DisplayName)
}

// TypingUsers reports who is currently composing in a room, for inspection
// and tests.
func (c *Coordinator) TypingUsers(roomID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomID]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(room.typing))
	for id := range room.typing {
		if identity, ok := room.members[id]; ok {
			names = append(names, identity.DisplayName)
		}
	}
	return names
}

func (c *Coordinator) typingContextLocked(identityID string) (*Identity, *roomState) {
	identity, ok := c.identities[identityID]
	if !ok {
		return nil, nil
	}
	roomID, ok := c.residency[identityID]
	if !ok {
		return nil, nil
	}
	return identity, c.rooms[roomID]
}
