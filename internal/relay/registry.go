package relay

import (
	model "github.com/parley-chat/parley/internal/model/relay"
)

// Peer is the transport-side handle for one connected client. Send enqueues
// an outbound frame and must not block the caller; delivery to slow or gone
// peers is best-effort.
type Peer interface {
	Send(v any) error
}

// Entry pairs a peer with its session for fan-out snapshots.
type Entry struct {
	Peer    Peer
	Session *model.Session
}

// Registry tracks every connected peer and its session. It is owned by the
// engine's event loop and is not safe for concurrent use.
type Registry struct {
	sessions   map[Peer]*model.Session
	identities map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions:   make(map[Peer]*model.Session),
		identities: make(map[string]struct{}),
	}
}

// Register allocates an identity, token and colour for the peer and seeds
// its conversation list with the global membership.
func (r *Registry) Register(p Peer) *model.Session {
	identity := NextIdentity(r.identities)
	session := &model.Session{
		Identity:      identity,
		AuthToken:     NewAuthToken(),
		Colour:        NewColour(),
		State:         model.StateConnecting,
		Conversations: []model.Conversation{model.GlobalMembership()},
	}
	r.sessions[p] = session
	r.identities[identity] = struct{}{}
	return session
}

// Lookup returns the session for a peer, if still registered.
func (r *Registry) Lookup(p Peer) (*model.Session, bool) {
	s, ok := r.sessions[p]
	return s, ok
}

// Deregister removes the peer and frees its identity for reuse. Safe to
// call for peers that were never registered or were already removed.
func (r *Registry) Deregister(p Peer) {
	s, ok := r.sessions[p]
	if !ok {
		return
	}
	delete(r.sessions, p)
	delete(r.identities, s.Identity)
}

// Snapshot returns the current peer/session pairs. Iteration order is
// unspecified.
func (r *Registry) Snapshot() []Entry {
	entries := make([]Entry, 0, len(r.sessions))
	for p, s := range r.sessions {
		entries = append(entries, Entry{Peer: p, Session: s})
	}
	return entries
}

// ByIdentity finds the connected session holding the given identity.
func (r *Registry) ByIdentity(identity string) (*model.Session, bool) {
	for _, s := range r.sessions {
		if s.Identity == identity {
			return s, true
		}
	}
	return nil, false
}

// Has reports whether an identity belongs to a connected session.
func (r *Registry) Has(identity string) bool {
	_, ok := r.identities[identity]
	return ok
}

// Len returns the number of connected sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}
