package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendRoomMessageBroadcastsToAllMembers(t *testing.T) {
	c, alice, _, aliceSink, bobSink := typingPair(t)

	msg, err := c.SendRoomMessage(alice.ID, "  hello room  ")
	require.NoError(t, err)
	require.Equal(t, "hello room", msg.Content)
	require.Equal(t, "general", msg.RoomID)
	require.Equal(t, "alice", msg.From)
	require.NotEmpty(t, msg.ID)
	require.False(t, msg.IsSystem)

	// Sender included in the fanout.
	require.Len(t, aliceSink.named(EventNewMessage), 1)
	require.Len(t, bobSink.named(EventNewMessage), 1)
	require.Equal(t, msg, bobSink.named(EventNewMessage)[0].Data)
}

func TestSendRoomMessageContentBounds(t *testing.T) {
	c, alice, _, _, _ := typingPair(t)

	_, err := c.SendRoomMessage(alice.ID, "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = c.SendRoomMessage(alice.ID, strings.Repeat("x", 501))
	require.ErrorIs(t, err, ErrMessageTooLong)

	_, err = c.SendRoomMessage(alice.ID, strings.Repeat("x", 500))
	require.NoError(t, err)
}

func TestSendRoomMessageRequiresRoom(t *testing.T) {
	c := newTestCoordinator(Options{})
	alice, err := c.Join(&stubSink{}, "alice")
	require.NoError(t, err)

	_, err = c.SendRoomMessage(alice.ID, "hello")
	require.ErrorIs(t, err, ErrNotInRoom)
}

func TestRoomHistoryEvictsOldestPastCapacity(t *testing.T) {
	c := newTestCoordinator(Options{HistoryLimit: 3})
	sink := &stubSink{}
	alice, _ := c.Join(sink, "alice")
	_, err := c.JoinRoom(alice.ID, "general")
	require.NoError(t, err)

	for _, body := range []string{"one", "two", "three", "four", "five"} {
		_, err := c.SendRoomMessage(alice.ID, body)
		require.NoError(t, err)
	}

	snap, err := c.JoinRoom(alice.ID, "general")
	require.NoError(t, err)
	require.Len(t, snap.Messages, 3)
	require.Equal(t, "three", snap.Messages[0].Content)
	require.Equal(t, "five", snap.Messages[2].Content)
}

func TestPrivateMessageDeliveredOnlyToRecipient(t *testing.T) {
	c := newTestCoordinator(Options{})
	aliceSink, bobSink, carolSink := &stubSink{}, &stubSink{}, &stubSink{}

	alice, _ := c.Join(aliceSink, "alice")
	_, _ = c.Join(bobSink, "bob")
	_, _ = c.Join(carolSink, "carol")

	pm, err := c.SendPrivateMessage(alice.ID, "bob", "psst")
	require.NoError(t, err)
	require.Equal(t, "alice", pm.From)
	require.Equal(t, "bob", pm.To)
	require.NotEmpty(t, pm.ID)

	delivered := bobSink.named(EventPrivateMessage)
	require.Len(t, delivered, 1)
	require.Equal(t, pm, delivered[0].Data)

	require.Empty(t, carolSink.named(EventPrivateMessage))
	require.Empty(t, aliceSink.named(EventPrivateMessage))
}

func TestPrivateMessageDoesNotRequireASharedRoom(t *testing.T) {
	c := newTestCoordinator(Options{})
	aliceSink, bobSink := &stubSink{}, &stubSink{}

	alice, _ := c.Join(aliceSink, "alice")
	bob, _ := c.Join(bobSink, "bob")
	_, _ = c.JoinRoom(alice.ID, "general")
	_, _ = c.JoinRoom(bob.ID, "music")
	bobSink.reset()

	_, err := c.SendPrivateMessage(alice.ID, "bob", "hi across rooms")
	require.NoError(t, err)
	require.Len(t, bobSink.named(EventPrivateMessage), 1)
}

func TestPrivateMessageRecipientNotFound(t *testing.T) {
	c := newTestCoordinator(Options{})
	alice, _ := c.Join(&stubSink{}, "alice")

	_, err := c.SendPrivateMessage(alice.ID, "nobody", "hello?")
	require.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestPrivateMessageContentBounds(t *testing.T) {
	c := newTestCoordinator(Options{})
	alice, _ := c.Join(&stubSink{}, "alice")
	_, _ = c.Join(&stubSink{}, "bob")

	_, err := c.SendPrivateMessage(alice.ID, "bob", " ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = c.SendPrivateMessage(alice.ID, "bob", strings.Repeat("z", 501))
	require.ErrorIs(t, err, ErrMessageTooLong)
}
