package chat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogHasUniqueJoinableRooms(t *testing.T) {
	catalog := DefaultCatalog()
	rooms := catalog.Rooms()
	require.NotEmpty(t, rooms)

	seen := make(map[string]struct{})
	for _, room := range rooms {
		require.NotEmpty(t, room.ID)
		require.NotEmpty(t, room.Name)
		require.NotEmpty(t, room.Category)
		_, dup := seen[room.ID]
		require.False(t, dup, "duplicate room id %q", room.ID)
		seen[room.ID] = struct{}{}

		got, ok := catalog.Get(room.ID)
		require.True(t, ok)
		require.Equal(t, room, got)
	}

	_, ok := catalog.Get("missing")
	require.False(t, ok)
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.json")
	payload := `[
		{"id": "lobby", "name": "The Lobby", "category": "Social", "description": "Start here"},
		{"id": "dev", "name": "Developers", "category": "Education", "description": "Shop talk"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.Rooms(), 2)

	room, ok := catalog.Get("dev")
	require.True(t, ok)
	require.Equal(t, "Developers", room.Name)
}

func TestLoadCatalogRejectsBadInput(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	_, err = LoadCatalog(empty)
	require.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte(`{nope`), 0o600))
	_, err = LoadCatalog(garbage)
	require.Error(t, err)
}

func TestRoomListTracksOccupancyInCatalogOrder(t *testing.T) {
	c := newTestCoordinator(Options{})

	list := c.RoomList()
	catalogRooms := DefaultCatalog().Rooms()
	require.Len(t, list, len(catalogRooms))
	for i, summary := range list {
		require.Equal(t, catalogRooms[i].ID, summary.ID)
		require.Zero(t, summary.UserCount)
	}

	alice, _ := c.Join(&stubSink{}, "alice")
	bob, _ := c.Join(&stubSink{}, "bob")
	_, _ = c.JoinRoom(alice.ID, "general")
	_, _ = c.JoinRoom(bob.ID, "general")

	for _, summary := range c.RoomList() {
		if summary.ID == "general" {
			require.Equal(t, 2, summary.UserCount)
		}
	}
}
