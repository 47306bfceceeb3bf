package server

import (
	"sync"

	"go.uber.org/zap"
)

// Registry is the concurrency-safe collection of live sessions. It is the
// only piece of cross-session shared mutable state in the server, and it
// doubles as the admission-control point: Add rejects connections once the
// configured maximum population is reached.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[uint32]*Session
	maxSessions int
	logger      *zap.SugaredLogger
}

func NewRegistry(maxSessions int, logger *zap.SugaredLogger) *Registry {
	return &Registry{
		sessions:    make(map[uint32]*Session),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Add registers a session, reporting whether it was admitted. A session
// rejected for capacity is never admitted by eviction; the client has to
// try again later.
func (r *Registry) Add(session *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sessions) >= r.maxSessions {
		r.logger.Infof("rejected session #%d from %s: server is full", session.ID(), session.IPAddr())
		return false
	}

	r.sessions[session.ID()] = session
	return true
}

// Remove closes the session's transport and evicts it. No-op if the id is
// not registered. Closing before dropping the entry guarantees that an
// in-flight broadcast cannot deliver to a removed session.
func (r *Registry) Remove(id uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return
	}

	_ = session.Close()
	delete(r.sessions, id)
}

// Get returns the session registered under id, if any.
func (r *Registry) Get(id uint32) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	return session, ok
}

// Len returns the current population.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns a read-consistent copy of the current membership so that
// broadcasts and the watchdog never observe an entry mid-mutation.
func (r *Registry) Snapshot() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Broadcast sends data to every live session. Sends only queue the frame
// on each recipient's writer, so a recipient that has stopped draining its
// socket never delays delivery to the others or the caller. Per-session
// failures are logged and skipped.
func (r *Registry) Broadcast(data []byte) {
	for _, session := range r.Snapshot() {
		if err := session.Send(data); err != nil {
			r.logger.Warnf("broadcast to session #%d failed: %s", session.ID(), err)
		}
	}
}

// BroadcastExcept sends data to every live session except the one
// registered under id.
func (r *Registry) BroadcastExcept(id uint32, data []byte) {
	for _, session := range r.Snapshot() {
		if session.ID() == id {
			continue
		}
		if err := session.Send(data); err != nil {
			r.logger.Warnf("broadcast to session #%d failed: %s", session.ID(), err)
		}
	}
}

// DisconnectAll closes every session and clears the registry. Used at
// shutdown to unblock any read still in flight.
func (r *Registry) DisconnectAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		_ = session.Close()
		delete(r.sessions, id)
	}
}
