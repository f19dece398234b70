package chat

import "fmt"

// Join claims a display name for a fresh connection and binds the sink to
// the new identity. Claiming a name invalidates any stale session record
// left behind by a previous holder.
func (c *Coordinator) Join(sink Sink, name string) (*Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, err := c.registry.Claim(name)
	if err != nil {
		return nil, err
	}

	c.identities[identity.ID] = identity
	c.conns[identity.ID] = sink
	c.sessions[NormalizeName(identity.DisplayName)] = &session{identity: identity, active: true}

	c.log.Info("user joined", "username", identity.DisplayName, "identity", identity.ID)
	return identity, nil
}

// JoinRoom moves an identity into a catalog room, leaving any previous room
// first. The returned snapshot already reflects the caller's own membership;
// existing members are notified after it is taken, so the newcomer can never
// observe a member list without itself in it.
func (c *Coordinator) JoinRoom(identityID, roomID string) (*RoomSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, ok := c.identities[identityID]
	if !ok {
		return nil, fmt.Errorf("join_room: unknown identity %q", identityID)
	}

	info, ok := c.catalog.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	if c.residency[identityID] == roomID {
		// Re-joining the current room just refreshes the snapshot.
		snap := c.rooms[roomID].snapshot()
		return &snap, nil
	}

	c.leaveRoomLocked(identity)

	room := c.roomLocked(info)
	room.members[identityID] = identity
	c.residency[identityID] = roomID

	snap := room.snapshot()
	c.broadcastRoom(room, identityID, EventUserJoinedRoom, UserJoinedRoom{Username: identity.DisplayName})
	c.roomUpdatedLocked(room)

	c.log.Info("user joined room", "username", identity.DisplayName, "room", roomID, "occupancy", len(room.members))
	return &snap, nil
}

// LeaveRoom removes the identity from its current room. No-op when the
// identity is unknown or roomless.
func (c *Coordinator) LeaveRoom(identityID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if identity, ok := c.identities[identityID]; ok {
		c.leaveRoomLocked(identity)
	}
}

// leaveRoomLocked clears room membership and typing state and notifies the
// remaining members. Callers hold the coordinator mutex.
func (c *Coordinator) leaveRoomLocked(identity *Identity) {
	roomID, ok := c.residency[identity.ID]
	if !ok {
		return
	}
	room := c.rooms[roomID]

	delete(room.members, identity.ID)
	delete(room.typing, identity.ID)
	delete(c.residency, identity.ID)

	c.broadcastRoom(room, "", EventUserLeft, UserLeft{
		Username:     identity.DisplayName,
		UpdatedUsers: room.memberNames(),
	})
	c.roomUpdatedLocked(room)

	c.log.Info("user left room", "username", identity.DisplayName, "room", roomID, "occupancy", len(room.members))
}

// Disconnect tears down an identity: room departure, name release, and the
// start of the session grace window. It is the single cleanup path for
// liveness timeouts, transport errors, and explicit leave_chat signals.
//
// The sink guards against stale teardown: when a session was restored onto a
// new connection, the old connection's eventual disconnect must not destroy
// the live identity. Passing a nil sink forces the teardown.
func (c *Coordinator) Disconnect(identityID string, sink Sink) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, ok := c.identities[identityID]
	if !ok {
		return
	}
	if sink != nil && c.conns[identityID] != sink {
		return
	}

	if rec, ok := c.sessions[NormalizeName(identity.DisplayName)]; ok && rec.identity.ID == identityID {
		rec.active = false
		rec.releasedAt = c.now()
		rec.roomID = c.residency[identityID]
	}

	c.leaveRoomLocked(identity)
	c.registry.Release(identity)
	delete(c.conns, identityID)
	delete(c.identities, identityID)
	c.pruneSessionsLocked()

	c.log.Info("user disconnected", "username", identity.DisplayName, "identity", identityID)
}

// pruneSessionsLocked drops continuity records whose grace window has
// passed, so session state cannot grow without bound under name churn.
// Callers hold the coordinator mutex.
func (c *Coordinator) pruneSessionsLocked() {
	cutoff := c.now().Add(-c.opts.SessionGrace)
	for name, rec := range c.sessions {
		if !rec.active && rec.releasedAt.Before(cutoff) {
			delete(c.sessions, name)
		}
	}
}
