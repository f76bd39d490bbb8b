// Package sink contains Persistence Sink implementations. Sinks receive
// a copy of routed traffic; the routing core never blocks on them.
package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/IDMendis/RealTimeSecureChatApp/repositories"
)

type DiskSink struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
}

func NewDiskSink(repository repositories.IMessageRepository, log *slog.Logger) DiskSink {
	return DiskSink{repository: repository, log: log}
}

// Consume archives user chat. Lifecycle notifications are transient and
// skipped.
func (d DiskSink) Consume(_ context.Context, msg domain.Message) error {
	if msg.Kind != domain.KindChat {
		d.log.Debug(fmt.Sprintf("Skipping non-chat kind : %s", msg.Kind))
		return nil
	}
	return d.repository.StoreMessage(toDiskMessage(msg))
}

// Scope names the delivery path a message took, and doubles as the
// storage partition key.
func Scope(msg domain.Message) string {
	switch {
	case msg.IsPrivate():
		return "private"
	case msg.IsRoomScoped():
		return "room:" + msg.RoomID
	default:
		return "public"
	}
}

func toDiskMessage(msg domain.Message) repositories.DiskMessage {
	return repositories.DiskMessage{
		ID:     msg.ID,
		Scope:  Scope(msg),
		Author: msg.SenderID,
		Body:   msg.Body,
		At:     msg.SentAt,
		Meta:   msg.Meta,
	}
}
