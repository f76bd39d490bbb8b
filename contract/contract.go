//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
)

// ISessionRegistry tracks live connections and their participant bindings.
// Misses are reported through bool results, never through errors.
type ISessionRegistry interface {
	Connect(sessionID string)
	Register(sessionID, participantID string)
	Unregister(sessionID string) (string, bool)
	Participant(sessionID string) (string, bool)
	LookupSession(participantID string) (string, bool)
	Sessions() []string
	Count() int
}

// IRoomStore maps room identifiers to member sets. A room exists if and
// only if its member set is non-empty.
type IRoomStore interface {
	Join(roomID, participantID string)
	Leave(roomID, participantID string)
	Members(roomID string) []string
	RoomsContaining(participantID string) []string
	LeaveAll(participantID string) []string
	Rooms() []string
	Size(roomID string) int
	Contains(roomID, participantID string) bool
	Count() int
}

// IRouter resolves a message into its destination sessions.
type IRouter interface {
	Route(msg domain.Message) ([]string, error)
}

// ICoordinator is the boundary the Transport Layer drives.
type ICoordinator interface {
	OnConnect(sessionID string)
	OnIdentified(sessionID, participantID string)
	OnJoin(sessionID, roomID string) error
	OnLeave(sessionID, roomID string) error
	OnMessage(sessionID string, msg domain.Message) error
	OnDisconnect(sessionID string)
}

// DeliverySink is the callback into the Transport Layer. Implementations
// must not block on network I/O; a slow destination is the transport's
// problem, never the router's.
type DeliverySink interface {
	Deliver(ctx context.Context, sessionID string, msg domain.Message) error
}

// PersistenceSink receives a copy of routed messages, fire-and-forget.
type PersistenceSink interface {
	Consume(ctx context.Context, msg domain.Message) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
