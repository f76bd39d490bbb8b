package ws

import (
	"github.com/google/uuid"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
)

// Frame types accepted from clients.
const (
	TypeIdentify = "IDENTIFY"
	TypeJoin     = "JOIN"
	TypeLeave    = "LEAVE"
	TypeChat     = "CHAT"
	TypeError    = "ERROR"
)

// Inbound is the decoded client frame. Timestamps and identifiers are
// never read from it; the core stamps its own.
type Inbound struct {
	Type        string            `json:"type"`
	SenderID    string            `json:"senderId,omitempty"`
	RecipientID string            `json:"recipientId,omitempty"`
	RoomID      string            `json:"roomId,omitempty"`
	Body        string            `json:"body,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Outbound is the frame written to clients for every delivery.
type Outbound struct {
	ID          string            `json:"id,omitempty"`
	Kind        string            `json:"kind"`
	SenderID    string            `json:"senderId,omitempty"`
	RecipientID string            `json:"recipientId,omitempty"`
	RoomID      string            `json:"roomId,omitempty"`
	Body        string            `json:"body"`
	Timestamp   int64             `json:"timestamp,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

func toOutbound(msg domain.Message) Outbound {
	out := Outbound{
		Kind:        string(msg.Kind),
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		RoomID:      msg.RoomID,
		Body:        msg.Body,
		Meta:        msg.Meta,
	}
	if msg.ID != uuid.Nil {
		out.ID = msg.ID.String()
	}
	if !msg.SentAt.IsZero() {
		out.Timestamp = msg.SentAt.UnixMilli()
	}
	return out
}

func errorFrame(err error) Outbound {
	return Outbound{Kind: TypeError, Body: err.Error()}
}
