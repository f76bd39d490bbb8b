// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes user chat from lifecycle notifications
// synthesized by the server.
type Kind string

const (
	KindChat         Kind = "CHAT"
	KindJoined       Kind = "JOIN"
	KindLeft         Kind = "LEAVE"
	KindDisconnected Kind = "DISCONNECT"
)

// Message represents an immutable chat event.
// ID and SentAt are assigned server-side at ingress and never
// trusted from the client. A non-empty RecipientID means private
// delivery, a non-empty RoomID means room-scoped delivery.
type Message struct {
	ID          uuid.UUID
	Kind        Kind
	SenderID    string `validate:"required"`
	RecipientID string
	RoomID      string
	Body        string `validate:"required"`
	SentAt      time.Time
	Meta        map[string]string
}

func (m Message) IsPrivate() bool {
	return m.RecipientID != ""
}

func (m Message) IsRoomScoped() bool {
	return m.RoomID != ""
}

// Stamped returns a copy carrying a fresh server-assigned identifier
// and timestamp. Defaults the kind to CHAT when the caller left it unset.
func (m Message) Stamped(now time.Time) Message {
	m.ID = uuid.New()
	m.SentAt = now.UTC()
	if m.Kind == "" {
		m.Kind = KindChat
	}
	return m
}

// NewJoinedRoom builds the room notification announcing a participant joined.
func NewJoinedRoom(participantID, roomID string, now time.Time) Message {
	return Message{
		ID:       uuid.New(),
		Kind:     KindJoined,
		SenderID: participantID,
		RoomID:   roomID,
		Body:     fmt.Sprintf("%s joined the room", participantID),
		SentAt:   now.UTC(),
	}
}

// NewLeftRoom builds the room notification announcing a participant left.
func NewLeftRoom(participantID, roomID string, now time.Time) Message {
	return Message{
		ID:       uuid.New(),
		Kind:     KindLeft,
		SenderID: participantID,
		RoomID:   roomID,
		Body:     fmt.Sprintf("%s left the room", participantID),
		SentAt:   now.UTC(),
	}
}

// NewDisconnected builds the broadcast notification announcing a
// participant's connection closed.
func NewDisconnected(participantID string, now time.Time) Message {
	return Message{
		ID:       uuid.New(),
		Kind:     KindDisconnected,
		SenderID: participantID,
		Body:     fmt.Sprintf("%s disconnected", participantID),
		SentAt:   now.UTC(),
	}
}
