package runtime

import (
	"sync"
	"time"

	"github.com/IDMendis/RealTimeSecureChatApp/domain"
	"github.com/samber/lo"
)

// SessionRegistry tracks live sessions and the participant identity each
// one claims. A participant maps to at most one current session: a later
// Register under the same identity supersedes the previous binding, the
// superseded session stays connected but is no longer the delivery
// target for that identity.
type SessionRegistry struct {
	mu            sync.RWMutex
	sessions      map[string]*domain.Session
	byParticipant map[string]string // participant -> current session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions:      make(map[string]*domain.Session),
		byParticipant: make(map[string]string),
	}
}

// Connect records a session before its identity is known.
// Idempotent per session identifier.
func (r *SessionRegistry) Connect(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; ok {
		return
	}
	r.sessions[sessionID] = &domain.Session{ID: sessionID, ConnectedAt: time.Now().UTC()}
}

// Register binds a participant identity to a session. Re-registering the
// same session with a different identity overwrites the binding, which
// happens when the identity is only learned from the first inbound frame.
func (r *SessionRegistry) Register(sessionID, participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		sess = &domain.Session{ID: sessionID, ConnectedAt: time.Now().UTC()}
		r.sessions[sessionID] = sess
	}

	if sess.ParticipantID != "" && r.byParticipant[sess.ParticipantID] == sessionID {
		delete(r.byParticipant, sess.ParticipantID)
	}
	sess.ParticipantID = participantID
	r.byParticipant[participantID] = sessionID
}

// Unregister removes the session and returns its participant identity.
// A session that was never identified, or a second call for the same
// session, reports absence.
func (r *SessionRegistry) Unregister(sessionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		return "", false
	}
	delete(r.sessions, sessionID)

	if !sess.Identified() {
		return "", false
	}
	// Only drop the reverse entry if this session still owns it; a
	// superseding session may have claimed the identity since.
	if r.byParticipant[sess.ParticipantID] == sessionID {
		delete(r.byParticipant, sess.ParticipantID)
	}
	return sess.ParticipantID, true
}

// Participant returns the identity bound to a session, if any.
func (r *SessionRegistry) Participant(sessionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[sessionID]
	if !ok || !sess.Identified() {
		return "", false
	}
	return sess.ParticipantID, true
}

// LookupSession is the reverse lookup used for targeted delivery.
func (r *SessionRegistry) LookupSession(participantID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionID, ok := r.byParticipant[participantID]
	return sessionID, ok
}

// Sessions returns a point-in-time snapshot of every live session.
func (r *SessionRegistry) Sessions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Keys(r.sessions)
}

func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
