package chat

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

const (
	defaultHistoryLimit     = 50
	defaultMaxMessageLength = 500
	defaultSessionGrace     = 30 * time.Second
)

// Options tunes the coordinator. Zero values fall back to defaults.
type Options struct {
	// HistoryLimit bounds each room's retained message buffer.
	HistoryLimit int
	// MaxMessageLength caps public and private message content, in runes.
	MaxMessageLength int
	// SessionGrace is how long after disconnect a session token can still
	// restore the released identity.
	SessionGrace time.Duration
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = defaultHistoryLimit
	}
	if o.MaxMessageLength <= 0 {
		o.MaxMessageLength = defaultMaxMessageLength
	}
	if o.SessionGrace <= 0 {
		o.SessionGrace = defaultSessionGrace
	}
	return o
}

// session is a continuity record for a display name: the identity it maps
// to, the last room it occupied, and when (if) it was released.
type session struct {
	identity   *Identity
	roomID     string
	active     bool
	releasedAt time.Time
}

// Coordinator owns all shared chat state: the identity registry, the room
// table, live connections, and session continuity records. Every operation
// serializes on one mutex; nothing on the hot path does I/O beyond
// non-blocking sink enqueues, so operations complete in bounded local time.
type Coordinator struct {
	log     *slog.Logger
	catalog *Catalog
	opts    Options

	mu         sync.Mutex
	registry   *Registry
	rooms      map[string]*roomState
	identities map[string]*Identity // identity id -> identity
	conns      map[string]Sink      // identity id -> live connection
	residency  map[string]string    // identity id -> room id
	sessions   map[string]*session  // normalized name -> continuity record

	now func() time.Time // injectable clock
}

func NewCoordinator(log *slog.Logger, catalog *Catalog, opts Options) *Coordinator {
	return &Coordinator{
		log:        log,
		catalog:    catalog,
		opts:       opts.withDefaults(),
		registry:   NewRegistry(),
		rooms:      make(map[string]*roomState),
		identities: make(map[string]*Identity),
		conns:      make(map[string]Sink),
		residency:  make(map[string]string),
		sessions:   make(map[string]*session),
		now:        time.Now,
	}
}

// RoomList renders the catalog with live occupancy counts, in catalog order.
func (c *Coordinator) RoomList() []RoomSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	return lo.Map(c.catalog.Rooms(), func(info CatalogRoom, _ int) RoomSummary {
		summary := RoomSummary{CatalogRoom: info}
		if room, ok := c.rooms[info.ID]; ok {
			summary.UserCount = len(room.members)
		}
		return summary
	})
}

// roomLocked returns the live state for a catalog room, creating it on first
// reference. Live state persists once created; only members come and go.
func (c *Coordinator) roomLocked(info CatalogRoom) *roomState {
	room, ok := c.rooms[info.ID]
	if !ok {
		room = newRoomState(info, c.opts.HistoryLimit)
		c.rooms[info.ID] = room
	}
	return room
}

// broadcastRoom fans an event out to every member of a room, optionally
// skipping one identity. Fire and forget per recipient.
func (c *Coordinator) broadcastRoom(room *roomState, exceptID, event string, data any) {
	for id := range room.members {
		if id == exceptID {
			continue
		}
		if sink, ok := c.conns[id]; ok {
			if !sink.Send(event, data) {
				c.log.Debug("dropped event for slow receiver", "event", event, "identity", id)
			}
		}
	}
}

// broadcastAll fans an event out to every identified connection.
func (c *Coordinator) broadcastAll(event string, data any) {
	for id, sink := range c.conns {
		if !sink.Send(event, data) {
			c.log.Debug("dropped event for slow receiver", "event", event, "identity", id)
		}
	}
}

// roomUpdatedLocked publishes the room's new occupancy to every connection
// so lobby views stay current.
func (c *Coordinator) roomUpdatedLocked(room *roomState) {
	c.broadcastAll(EventRoomUpdated, RoomUpdate{RoomID: room.info.ID, UserCount: len(room.members)})
}
