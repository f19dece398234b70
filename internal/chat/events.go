package chat

// Coordinator-to-client event names. The transport layer wraps each payload
// in an envelope {"event": name, "data": payload}.
const (
	EventRoomsList            = "rooms_list"
	EventUserJoined           = "user_joined"
	EventJoinError            = "join_error"
	EventSessionRestored      = "session_restored"
	EventSessionRestoreFailed = "session_restore_failed"
	EventRoomJoined           = "room_joined"
	EventNewMessage           = "new_message"
	EventPrivateMessage       = "private_message"
	EventUserJoinedRoom       = "user_joined_room"
	EventUserLeft             = "user_left"
	EventRoomUpdated          = "room_updated"
	EventUserTyping           = "user_typing"
	EventUserStoppedTyping    = "user_stopped_typing"
	EventPong                 = "pong"
	EventError                = "error"
)

// UserJoinedRoom announces a newcomer to the existing members of a room.
type UserJoinedRoom struct {
	Username string `json:"username"`
}

// UserLeft announces a departure together with the recomputed member list,
// so receivers never have to reconcile incremental removals.
type UserLeft struct {
	Username     string   `json:"username"`
	UpdatedUsers []string `json:"updatedUsers"`
}

// RoomUpdate refreshes a room's occupancy count on every connection's lobby
// view.
type RoomUpdate struct {
	RoomID    string `json:"roomId"`
	UserCount int    `json:"userCount"`
}

// SessionSnapshot is the payload of session_restored: the restored identity
// and, when it occupied a room, everything needed to resume without
// replaying the join protocol.
type SessionSnapshot struct {
	User        *Identity     `json:"user"`
	CurrentRoom *RoomSnapshot `json:"currentRoom,omitempty"`
}

// Sink is a live client connection as the coordinator sees it. Send must
// never block: implementations enqueue best-effort and report whether the
// event was accepted.
type Sink interface {
	Send(event string, data any) bool
}
