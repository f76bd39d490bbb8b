// Package runtime orchestrates session lifecycle, room membership, and
// message routing. It contains no transport framing and no persistence
// format knowledge; both live behind contract interfaces.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IDMendis/RealTimeSecureChatApp/contract"
	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/errors"
	"github.com/IDMendis/RealTimeSecureChatApp/observability"
)

// Coordinator drives the per-session state machine: Connected, then
// Disconnected, terminal. The Transport Layer calls the On* methods
// from one goroutine per session; the coordinator calls back through
// the DeliverySink for every resolved destination and offers a copy of
// each routed chat message to the persistence channel without blocking.
type Coordinator struct {
	log       *slog.Logger
	registry  contract.ISessionRegistry
	rooms     contract.IRoomStore
	router    contract.IRouter
	transport contract.DeliverySink
	persist   chan domain.Message
	monitor   *observability.Monitor
	now       func() time.Time
}

func NewCoordinator(log *slog.Logger, registry contract.ISessionRegistry,
	rooms contract.IRoomStore, router contract.IRouter,
	transport contract.DeliverySink, monitor *observability.Monitor,
	persistBufferSize int) *Coordinator {
	return &Coordinator{
		log:       log,
		registry:  registry,
		rooms:     rooms,
		router:    router,
		transport: transport,
		persist:   make(chan domain.Message, persistBufferSize),
		monitor:   monitor,
		now:       time.Now,
	}
}

// PersistQueue exposes the fire-and-forget persistence handoff; the
// persist worker drains it into the configured sink.
func (c *Coordinator) PersistQueue() <-chan domain.Message {
	return c.persist
}

// OnConnect records the session before any identity is known.
func (c *Coordinator) OnConnect(sessionID string) {
	c.registry.Connect(sessionID)
	c.log.Debug("Session connected", "session", sessionID)
}

// OnIdentified binds the participant identity once the transport has
// learned it, which may coincide with connect or follow the first frame.
func (c *Coordinator) OnIdentified(sessionID, participantID string) {
	if participantID == "" {
		c.log.Warn("Ignoring empty participant identity", "session", sessionID)
		return
	}
	c.registry.Register(sessionID, participantID)
	c.log.Info(fmt.Sprintf("Session %s identified as %s", sessionID, participantID))
}

// OnJoin adds the session's participant to a room and announces the
// join to every member, the joiner included.
func (c *Coordinator) OnJoin(sessionID, roomID string) error {
	if roomID == "" {
		return errors.ErrEmptyRoom
	}
	participantID, ok := c.registry.Participant(sessionID)
	if !ok {
		return errors.ErrUnknownSession
	}

	c.rooms.Join(roomID, participantID)
	c.log.Info(fmt.Sprintf("User %s joined room %s. Room size: %d",
		participantID, roomID, c.rooms.Size(roomID)))

	c.dispatch(domain.NewJoinedRoom(participantID, roomID, c.now()))
	return nil
}

// OnLeave removes the participant from a room and notifies the
// remaining members. Leaving a room the participant is not in is a no-op.
func (c *Coordinator) OnLeave(sessionID, roomID string) error {
	if roomID == "" {
		return errors.ErrEmptyRoom
	}
	participantID, ok := c.registry.Participant(sessionID)
	if !ok {
		return errors.ErrUnknownSession
	}

	c.rooms.Leave(roomID, participantID)
	c.log.Info(fmt.Sprintf("User %s left room %s", participantID, roomID))

	c.dispatch(domain.NewLeftRoom(participantID, roomID, c.now()))
	return nil
}

// OnMessage stamps, validates, routes, and delivers one inbound message.
// A rejection is returned to the caller only; it never reaches other
// participants and never terminates the session.
func (c *Coordinator) OnMessage(sessionID string, msg domain.Message) error {
	stamped := msg.Stamped(c.now())

	destinations, err := c.router.Route(stamped)
	if err != nil {
		c.monitor.IncrRejected()
		c.log.Warn("Message rejected", "session", sessionID, "error", err)
		return err
	}
	c.monitor.IncrRouted()

	c.deliver(stamped, destinations)
	if stamped.Kind == domain.KindChat {
		c.offerPersist(stamped)
	}
	return nil
}

// OnDisconnect runs the cleanup sequence. Ordering matters: the room
// list must be captured before LeaveAll, otherwise every leave
// notification would see an already-empty membership and be dropped.
// Safe to call more than once; the second call finds nothing to clean.
func (c *Coordinator) OnDisconnect(sessionID string) {
	participantID, identified := c.registry.Participant(sessionID)

	// A superseded session no longer owns its identity; its disconnect
	// must not tear down the rooms of the session that replaced it.
	current := identified
	if identified {
		currentSession, ok := c.registry.LookupSession(participantID)
		current = ok && currentSession == sessionID
	}

	if current {
		captured := c.rooms.RoomsContaining(participantID)
		c.rooms.LeaveAll(participantID)

		for _, roomID := range captured {
			c.dispatch(domain.NewLeftRoom(participantID, roomID, c.now()))
		}
		c.dispatch(domain.NewDisconnected(participantID, c.now()))
	}

	if _, ok := c.registry.Unregister(sessionID); ok {
		c.log.Info(fmt.Sprintf("User %s cleanup completed", participantID))
	} else {
		c.log.Debug("No identity bound to session, skipping room cleanup",
			"session", sessionID)
	}
}

// dispatch routes and delivers a server-synthesized notification.
// Notifications that fail routing are dropped silently: by the time a
// leave notification is built the room may legitimately be gone.
func (c *Coordinator) dispatch(msg domain.Message) {
	destinations, err := c.router.Route(msg)
	if err != nil {
		return
	}
	c.deliver(msg, destinations)
}

func (c *Coordinator) deliver(msg domain.Message, destinations []string) {
	ctx := context.Background()
	for _, destination := range destinations {
		if err := c.transport.Deliver(ctx, destination, msg); err != nil {
			c.monitor.IncrDeliveryErrors()
			c.log.Debug("Delivery failed", "session", destination, "error", err)
			continue
		}
		c.monitor.IncrDelivered()
	}
}

// offerPersist hands the message to the persistence pipeline without
// ever blocking the session goroutine. Storage is a copy, not a
// guarantee; a full queue drops the copy and counts it.
func (c *Coordinator) offerPersist(msg domain.Message) {
	select {
	case c.persist <- msg:
	default:
		c.monitor.IncrPersistDropped()
		c.log.Warn("Persistence queue full, dropping message copy", "id", msg.ID)
	}
}
