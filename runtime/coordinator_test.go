package runtime

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/errors"
	"github.com/IDMendis/RealTimeSecureChatApp/mocks"
	"github.com/IDMendis/RealTimeSecureChatApp/observability"
)

// recorder keeps every delivery the coordinator pushed, keyed by session.
type recorder struct {
	mu         sync.Mutex
	bySession  map[string][]domain.Message
	deliveries int
}

func (r *recorder) record(_ context.Context, sessionID string, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bySession == nil {
		r.bySession = make(map[string][]domain.Message)
	}
	r.bySession[sessionID] = append(r.bySession[sessionID], msg)
	r.deliveries++
	return nil
}

func (r *recorder) received(sessionID string, kind domain.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, msg := range r.bySession[sessionID] {
		if msg.Kind == kind {
			count++
		}
	}
	return count
}

func coordinatorFixture(t *testing.T) (*Coordinator, *SessionRegistry, *RoomStore, *recorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockDeliverySink(ctrl)
	rec := &recorder{}
	sink.EXPECT().Deliver(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(rec.record).AnyTimes()

	registry := NewSessionRegistry()
	rooms := NewRoomStore()
	router := NewRouter(registry, rooms)
	coordinator := NewCoordinator(slog.Default(), registry, rooms, router,
		sink, observability.NewMonitor(), 16)
	return coordinator, registry, rooms, rec
}

func TestCoordinator_OnMessage_Stamps_And_Delivers(t *testing.T) {
	req := require.New(t)
	coordinator, _, _, rec := coordinatorFixture(t)

	// Given alice and bob connected
	coordinator.OnConnect("s-alice")
	coordinator.OnIdentified("s-alice", "alice")
	coordinator.OnConnect("s-bob")
	coordinator.OnIdentified("s-bob", "bob")

	// When alice broadcasts
	err := coordinator.OnMessage("s-alice", domain.Message{SenderID: "alice", Body: "hello"})
	req.NoError(err)

	// Then both sessions received one stamped chat message
	req.Equal(1, rec.received("s-alice", domain.KindChat))
	req.Equal(1, rec.received("s-bob", domain.KindChat))
	delivered := rec.bySession["s-bob"][0]
	req.NotZero(delivered.ID)
	req.False(delivered.SentAt.IsZero())

	// And a copy reached the persistence queue
	select {
	case persisted := <-coordinator.PersistQueue():
		req.Equal(delivered.ID, persisted.ID)
	default:
		req.Fail("expected a message copy on the persistence queue")
	}
}

func TestCoordinator_OnMessage_Rejection_Stays_Local(t *testing.T) {
	req := require.New(t)
	coordinator, _, _, rec := coordinatorFixture(t)

	coordinator.OnConnect("s-alice")
	coordinator.OnIdentified("s-alice", "alice")

	// When alice sends an empty body
	err := coordinator.OnMessage("s-alice", domain.Message{SenderID: "alice"})

	// Then the rejection is returned to the caller and nothing is delivered
	req.ErrorIs(err, errors.ErrEmptyBody)
	req.Zero(rec.deliveries)
}

func TestCoordinator_OnJoin_Announces_To_Room(t *testing.T) {
	req := require.New(t)
	coordinator, _, rooms, rec := coordinatorFixture(t)

	coordinator.OnConnect("s-alice")
	coordinator.OnIdentified("s-alice", "alice")
	coordinator.OnConnect("s-bob")
	coordinator.OnIdentified("s-bob", "bob")

	// When both join general
	req.NoError(coordinator.OnJoin("s-alice", "general"))
	req.NoError(coordinator.OnJoin("s-bob", "general"))

	// Then membership is in place and alice saw bob's join notification
	req.ElementsMatch([]string{"alice", "bob"}, rooms.Members("general"))
	req.Equal(2, rec.received("s-alice", domain.KindJoined))
	req.Equal(1, rec.received("s-bob", domain.KindJoined))
}

func TestCoordinator_OnJoin_Requires_Identity(t *testing.T) {
	req := require.New(t)
	coordinator, _, _, _ := coordinatorFixture(t)

	// Given a connected but never-identified session
	coordinator.OnConnect("s-anon")

	// Then joining fails with a sentinel, not a panic
	req.ErrorIs(coordinator.OnJoin("s-anon", "general"), errors.ErrUnknownSession)
	req.ErrorIs(coordinator.OnJoin("s-anon", ""), errors.ErrEmptyRoom)
}

func TestCoordinator_OnDisconnect_Leaves_All_And_Notifies(t *testing.T) {
	req := require.New(t)
	coordinator, registry, rooms, rec := coordinatorFixture(t)

	// Given alice in rooms a, b, c with bob in a and carol in b
	for _, s := range []struct{ session, participant string }{
		{"s-alice", "alice"}, {"s-bob", "bob"}, {"s-carol", "carol"},
	} {
		coordinator.OnConnect(s.session)
		coordinator.OnIdentified(s.session, s.participant)
	}
	rooms.Join("a", "alice")
	rooms.Join("a", "bob")
	rooms.Join("b", "alice")
	rooms.Join("b", "carol")
	rooms.Join("c", "alice")

	// When alice disconnects
	coordinator.OnDisconnect("s-alice")

	// Then she is gone from every room
	req.NotContains(rooms.Members("a"), "alice")
	req.NotContains(rooms.Members("b"), "alice")
	// c had no other member and was removed outright
	req.Zero(rooms.Size("c"))

	// And each remaining member received exactly one "left" notification
	req.Equal(1, rec.received("s-bob", domain.KindLeft))
	req.Equal(1, rec.received("s-carol", domain.KindLeft))

	// And everyone still connected saw the broadcast disconnect
	req.Equal(1, rec.received("s-bob", domain.KindDisconnected))
	req.Equal(1, rec.received("s-carol", domain.KindDisconnected))

	// And the session is unregistered
	_, ok := registry.LookupSession("alice")
	req.False(ok)
}

func TestCoordinator_OnDisconnect_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	coordinator, _, rooms, rec := coordinatorFixture(t)

	coordinator.OnConnect("s-alice")
	coordinator.OnIdentified("s-alice", "alice")
	coordinator.OnConnect("s-bob")
	coordinator.OnIdentified("s-bob", "bob")
	rooms.Join("general", "alice")
	rooms.Join("general", "bob")

	// When the transport reports the same disconnect twice
	coordinator.OnDisconnect("s-alice")
	firstLeft := rec.received("s-bob", domain.KindLeft)
	firstDisconnected := rec.received("s-bob", domain.KindDisconnected)
	coordinator.OnDisconnect("s-alice")

	// Then the second call changed nothing
	req.Equal(firstLeft, rec.received("s-bob", domain.KindLeft))
	req.Equal(firstDisconnected, rec.received("s-bob", domain.KindDisconnected))
	req.Equal([]string{"bob"}, rooms.Members("general"))
}

func TestCoordinator_OnDisconnect_Unidentified_Degrades_To_NoOp(t *testing.T) {
	req := require.New(t)
	coordinator, registry, _, rec := coordinatorFixture(t)

	// Given a session that disconnected before sending anything
	coordinator.OnConnect("s-ghost")

	// When it disconnects
	coordinator.OnDisconnect("s-ghost")

	// Then no notification was synthesized and the session is gone
	req.Zero(rec.deliveries)
	req.Zero(registry.Count())
}

func TestCoordinator_OnDisconnect_Superseded_Session_Keeps_Rooms(t *testing.T) {
	req := require.New(t)
	coordinator, registry, rooms, _ := coordinatorFixture(t)

	// Given alice connected twice, the second connection superseding
	coordinator.OnConnect("s-old")
	coordinator.OnIdentified("s-old", "alice")
	coordinator.OnConnect("s-new")
	coordinator.OnIdentified("s-new", "alice")
	req.NoError(coordinator.OnJoin("s-new", "general"))

	// When the stale session finally disconnects
	coordinator.OnDisconnect("s-old")

	// Then alice's membership and binding survive
	req.Contains(rooms.Members("general"), "alice")
	found, ok := registry.LookupSession("alice")
	req.True(ok)
	req.Equal("s-new", found)
}
