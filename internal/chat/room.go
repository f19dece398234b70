package chat

import (
	"sort"

	"github.com/samber/lo"
)

// roomState is the live side of a catalog room. It is only ever touched with
// the coordinator mutex held. Member and typing sets are keyed by identity
// id; the history buffer is bounded, oldest evicted.
type roomState struct {
	info    CatalogRoom
	members map[string]*Identity
	typing  map[string]struct{}
	history []Message
	limit   int
}

func newRoomState(info CatalogRoom, limit int) *roomState {
	return &roomState{
		info:    info,
		members: make(map[string]*Identity),
		typing:  make(map[string]struct{}),
		limit:   limit,
	}
}

func (r *roomState) appendMessage(msg Message) {
	r.history = append(r.history, msg)
	if r.limit > 0 && len(r.history) > r.limit {
		r.history = append(r.history[:0:0], r.history[len(r.history)-r.limit:]...)
	}
}

func (r *roomState) memberNames() []string {
	names := lo.Map(lo.Values(r.members), func(identity *Identity, _ int) string {
		return identity.DisplayName
	})
	sort.Strings(names)
	return names
}

// snapshot copies the room's history and member list; callers hand the
// result to sinks, so it must not alias mutable state.
func (r *roomState) snapshot() RoomSnapshot {
	return RoomSnapshot{
		RoomID:   r.info.ID,
		RoomName: r.info.Name,
		Messages: append([]Message(nil), r.history...),
		Users:    r.memberNames(),
	}
}
