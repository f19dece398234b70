package chat

// Restore resumes a prior session identified by its display name token.
//
// Three outcomes:
//   - The identity is still live (the old socket has not been reaped yet,
//     e.g. a browser refresh): the new sink takes over the connection and
//     the same Identity comes back, with a snapshot of its current room.
//   - The identity was released within the grace window: the name is
//     re-claimed for the same Identity and its last room membership is
//     reinstated, announced to the room like any other join.
//   - Anything else fails with ErrRestoreFailed: unknown name, grace
//     expired, or the name has since been claimed by a different identity
//     (claiming overwrites the continuity record, so the old token dies).
//
// The token is a bare display name, which provides continuity but no real
// authentication; that matches the observed protocol.
func (c *Coordinator) Restore(sink Sink, name string) (*Identity, *RoomSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.sessions[NormalizeName(name)]
	if !ok {
		return nil, nil, ErrRestoreFailed
	}

	if rec.active {
		c.conns[rec.identity.ID] = sink
		c.log.Info("session rebound", "username", rec.identity.DisplayName)
		if roomID, inRoom := c.residency[rec.identity.ID]; inRoom {
			snap := c.rooms[roomID].snapshot()
			return rec.identity, &snap, nil
		}
		return rec.identity, nil, nil
	}

	if c.now().Sub(rec.releasedAt) > c.opts.SessionGrace {
		delete(c.sessions, NormalizeName(name))
		return nil, nil, ErrRestoreFailed
	}

	if err := c.registry.Reattach(rec.identity); err != nil {
		delete(c.sessions, NormalizeName(name))
		return nil, nil, ErrRestoreFailed
	}

	rec.active = true
	c.identities[rec.identity.ID] = rec.identity
	c.conns[rec.identity.ID] = sink

	var snap *RoomSnapshot
	if rec.roomID != "" {
		if info, ok := c.catalog.Get(rec.roomID); ok {
			room := c.roomLocked(info)
			room.members[rec.identity.ID] = rec.identity
			c.residency[rec.identity.ID] = rec.roomID

			s := room.snapshot()
			snap = &s
			c.broadcastRoom(room, rec.identity.ID, EventUserJoinedRoom, UserJoinedRoom{Username: rec.identity.DisplayName})
			c.roomUpdatedLocked(room)
		}
		rec.roomID = ""
	}

	c.log.Info("session restored", "username", rec.identity.DisplayName)
	return rec.identity, snap, nil
}
