package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/errors"
)

func routerFixture() (*Router, *SessionRegistry, *RoomStore) {
	registry := NewSessionRegistry()
	rooms := NewRoomStore()
	return NewRouter(registry, rooms), registry, rooms
}

func TestRouter_Rejects_Empty_Sender_And_Body(t *testing.T) {
	req := require.New(t)
	router, _, _ := routerFixture()

	// When routing a message without a sender
	_, err := router.Route(domain.Message{Body: "hi"})
	req.ErrorIs(err, errors.ErrEmptySender)

	// And a message without a body
	_, err = router.Route(domain.Message{SenderID: "alice"})
	req.ErrorIs(err, errors.ErrEmptyBody)
}

func TestRouter_Private_Beats_Room(t *testing.T) {
	req := require.New(t)
	router, registry, rooms := routerFixture()

	// Given alice, bob and carol connected, all members of general
	registry.Register("s-alice", "alice")
	registry.Register("s-bob", "bob")
	registry.Register("s-carol", "carol")
	rooms.Join("general", "alice")
	rooms.Join("general", "bob")
	rooms.Join("general", "carol")

	// When alice sends a message carrying both a recipient and a room
	destinations, err := router.Route(domain.Message{
		SenderID:    "alice",
		RecipientID: "bob",
		RoomID:      "general",
		Body:        "psst",
	})

	// Then it routes as private: recipient plus sender echo, never the room
	req.NoError(err)
	req.ElementsMatch([]string{"s-alice", "s-bob"}, destinations)
}

func TestRouter_Private_To_Offline_Recipient_Echoes_Only(t *testing.T) {
	req := require.New(t)
	router, registry, _ := routerFixture()

	// Given only alice is connected
	registry.Register("s-alice", "alice")

	// When she messages carol who is offline
	destinations, err := router.Route(domain.Message{
		SenderID:    "alice",
		RecipientID: "carol",
		Body:        "are you there?",
	})

	// Then delivery is best-effort: the echo is the only destination
	req.NoError(err)
	req.Equal([]string{"s-alice"}, destinations)
}

func TestRouter_Room_Delivery_Skips_Disconnected_Members(t *testing.T) {
	req := require.New(t)
	router, registry, rooms := routerFixture()

	// Given a room whose member bob has no live session
	registry.Register("s-alice", "alice")
	rooms.Join("general", "alice")
	rooms.Join("general", "bob")

	// When alice posts to the room
	destinations, err := router.Route(domain.Message{
		SenderID: "alice",
		RoomID:   "general",
		Body:     "hi",
	})

	// Then only the registered member receives it
	req.NoError(err)
	req.Equal([]string{"s-alice"}, destinations)
}

func TestRouter_Unknown_Room_Yields_Empty_Set(t *testing.T) {
	req := require.New(t)
	router, registry, _ := routerFixture()
	registry.Register("s-alice", "alice")

	// When routing to a room nobody ever joined
	destinations, err := router.Route(domain.Message{
		SenderID: "alice",
		RoomID:   "ghost-town",
		Body:     "anyone?",
	})

	// Then the result is empty, not an error
	req.NoError(err)
	req.Empty(destinations)
}

func TestRouter_Broadcast_Reaches_Everyone_Including_Sender(t *testing.T) {
	req := require.New(t)
	router, registry, _ := routerFixture()

	// Given three connected sessions
	registry.Register("s-alice", "alice")
	registry.Register("s-bob", "bob")
	registry.Connect("s-anon")

	// When a message has neither recipient nor room
	destinations, err := router.Route(domain.Message{
		SenderID: "alice",
		Body:     "hello world",
	})

	// Then every live session is a destination, the sender included
	req.NoError(err)
	req.ElementsMatch([]string{"s-alice", "s-bob", "s-anon"}, destinations)
}

func TestRouter_Private_To_Self_Delivers_Once(t *testing.T) {
	req := require.New(t)
	router, registry, _ := routerFixture()
	registry.Register("s-alice", "alice")

	// When alice messages herself
	destinations, err := router.Route(domain.Message{
		SenderID:    "alice",
		RecipientID: "alice",
		Body:        "note to self",
	})

	// Then her session appears exactly once
	req.NoError(err)
	req.Equal([]string{"s-alice"}, destinations)
}
