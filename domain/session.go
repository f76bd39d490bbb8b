// Package domain contains core concepts of the chat system.
// This file defines Session entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Session is one live transport connection. The participant identity
// stays empty until the transport reports identification; the session
// identifier itself is transport-assigned and never reused.
type Session struct {
	ID            string
	ParticipantID string
	ConnectedAt   time.Time
}

// Identified reports whether a participant identity was ever bound.
func (s Session) Identified() bool {
	return s.ParticipantID != ""
}
