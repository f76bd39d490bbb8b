package runtime

import (
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/IDMendis/RealTimeSecureChatApp/contract"
	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/errors"
)

// Router resolves a message into destination sessions. Precedence is
// fixed: private beats room beats broadcast. The router only reads the
// registry and the room store, it never mutates either.
type Router struct {
	registry contract.ISessionRegistry
	rooms    contract.IRoomStore
	validate *validator.Validate
}

func NewRouter(registry contract.ISessionRegistry, rooms contract.IRoomStore) *Router {
	return &Router{
		registry: registry,
		rooms:    rooms,
		validate: validator.New(),
	}
}

// Route returns the sessions a message must be delivered to.
// A message with empty sender or empty body is rejected with a sentinel
// error; every other miss (unknown recipient, unknown room) resolves to
// a smaller or empty delivery set, never an error.
func (r *Router) Route(msg domain.Message) ([]string, error) {
	if err := r.validate.Struct(msg); err != nil {
		if msg.SenderID == "" {
			return nil, errors.ErrEmptySender
		}
		return nil, errors.ErrEmptyBody
	}

	switch {
	case msg.IsPrivate():
		return r.routePrivate(msg), nil
	case msg.IsRoomScoped():
		return r.routeRoom(msg), nil
	default:
		return r.registry.Sessions(), nil
	}
}

// routePrivate targets the recipient's session plus the sender's own
// session for echo-back confirmation. A recipient who is not connected
// silently receives nothing: private delivery is best-effort.
func (r *Router) routePrivate(msg domain.Message) []string {
	var destinations []string
	if senderSession, ok := r.registry.LookupSession(msg.SenderID); ok {
		destinations = append(destinations, senderSession)
	}
	if recipientSession, ok := r.registry.LookupSession(msg.RecipientID); ok {
		if msg.RecipientID != msg.SenderID {
			destinations = append(destinations, recipientSession)
		}
	}
	return destinations
}

// routeRoom targets every currently registered session whose identity
// is in the room's member snapshot.
func (r *Router) routeRoom(msg domain.Message) []string {
	members := r.rooms.Members(msg.RoomID)
	return lo.FilterMap(members, func(participantID string, _ int) (string, bool) {
		return r.registry.LookupSession(participantID)
	})
}
