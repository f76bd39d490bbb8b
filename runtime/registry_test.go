package runtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()
	sessionID := uuid.NewString()

	// Given no session is connected
	req.Zero(registry.Count())

	// When a session connects and identifies as alice
	registry.Connect(sessionID)
	registry.Register(sessionID, "alice")

	// Then the binding works both ways
	participantID, ok := registry.Participant(sessionID)
	req.True(ok)
	req.Equal("alice", participantID)

	found, ok := registry.LookupSession("alice")
	req.True(ok)
	req.Equal(sessionID, found)
	req.Equal(1, registry.Count())
}

func TestSessionRegistry_Register_Overwrites_Identity(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()
	sessionID := uuid.NewString()

	// Given a session identified as alice
	registry.Register(sessionID, "alice")

	// When the same session re-registers as bob
	registry.Register(sessionID, "bob")

	// Then bob owns the session and alice resolves to nothing
	found, ok := registry.LookupSession("bob")
	req.True(ok)
	req.Equal(sessionID, found)

	_, ok = registry.LookupSession("alice")
	req.False(ok)
}

func TestSessionRegistry_Unregister_Returns_Identity_Once(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()
	sessionID := uuid.NewString()

	// Given an identified session
	registry.Connect(sessionID)
	registry.Register(sessionID, "alice")

	// When the session unregisters
	participantID, ok := registry.Unregister(sessionID)

	// Then the identity is returned exactly once
	req.True(ok)
	req.Equal("alice", participantID)
	req.Zero(registry.Count())

	// And a second call is a no-op reporting absence
	_, ok = registry.Unregister(sessionID)
	req.False(ok)
}

func TestSessionRegistry_Unregister_Unidentified_Session(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()
	sessionID := uuid.NewString()

	// Given a session that connected but never identified
	registry.Connect(sessionID)

	// When it unregisters
	_, ok := registry.Unregister(sessionID)

	// Then absence is reported, not an error
	req.False(ok)
	req.Zero(registry.Count())
}

func TestSessionRegistry_Later_Connect_Supersedes(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()
	oldSession := uuid.NewString()
	newSession := uuid.NewString()

	// Given alice connected twice
	registry.Register(oldSession, "alice")
	registry.Register(newSession, "alice")

	// Then the newer session is the delivery target
	found, ok := registry.LookupSession("alice")
	req.True(ok)
	req.Equal(newSession, found)

	// When the superseded session disconnects
	participantID, ok := registry.Unregister(oldSession)

	// Then it still reports its identity but the binding survives
	req.True(ok)
	req.Equal("alice", participantID)

	found, ok = registry.LookupSession("alice")
	req.True(ok)
	req.Equal(newSession, found)
}

func TestSessionRegistry_Sessions_Snapshot(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()

	// Given two live sessions, one identified and one not
	registry.Connect("s1")
	registry.Register("s1", "alice")
	registry.Connect("s2")

	// Then both appear in the broadcast snapshot
	req.ElementsMatch([]string{"s1", "s2"}, registry.Sessions())
}
