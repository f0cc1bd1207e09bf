package relay

import (
	"github.com/samber/lo"

	model "github.com/parley-chat/parley/internal/model/relay"
)

// Index records every recipient set for which a conversation has ever been
// created, independent of any single session's view. Entries persist for
// the process lifetime; conversations are never deleted. Owned by the
// engine's event loop.
type Index struct {
	created [][]string
}

// NewIndex returns an empty conversation index.
func NewIndex() *Index {
	return &Index{}
}

// RecordCreated appends a recipient set to the record of ever-created
// conversations so late-ready or reconnected sessions can discover it.
func (ix *Index) RecordCreated(users []string) {
	set := make([]string, len(users))
	copy(set, users)
	ix.created = append(ix.created, set)
}

// Reconcile appends to the session every recorded recipient set that
// contains the session's identity and is not already known to it
// (set-equality of membership). Returns the number of memberships added.
func (ix *Index) Reconcile(s *model.Session) int {
	added := 0
	for _, set := range ix.created {
		if !lo.Contains(set, s.Identity) {
			continue
		}
		if s.Knows(set) {
			continue
		}
		s.Conversations = append(s.Conversations, model.Conversation{Users: set})
		added++
	}
	return added
}
