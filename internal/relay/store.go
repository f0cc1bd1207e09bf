package relay

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	model "github.com/parley-chat/parley/internal/model/relay"
)

// ColourLookup resolves the display colour of a currently connected sender
// identity. The second return is false when the sender is offline.
type ColourLookup func(identity string) (string, bool)

// Store is the append-only message log plus a secondary index keyed by
// canonical conversation key. All state is process-lifetime only. Owned by
// the engine's event loop.
type Store struct {
	log   []*model.Message
	byKey map[string][]*model.Message
}

// NewStore returns an empty message store.
func NewStore() *Store {
	return &Store{byKey: make(map[string][]*model.Message)}
}

// Append adds a message to the chronological log and to the per-conversation
// index. The message gets an ID and timestamp if it lacks them; its
// recipient set is never mutated afterwards.
func (st *Store) Append(m *model.Message) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}

	st.log = append(st.log, m)
	key := model.Key(m.RecipientIDs)
	st.byKey[key] = append(st.byKey[key], m)
}

// MessagesFor returns, in send order, every message addressed to the given
// identity, plus all global-sentinel messages. Each returned message's
// colour is re-resolved through lookup against the sender's current session;
// when the sender is offline the stored value stands. The log itself is
// never mutated by a read.
func (st *Store) MessagesFor(identity string, lookup ColourLookup) []model.Message {
	out := make([]model.Message, 0)
	for _, m := range st.log {
		if !visibleTo(m, identity) {
			continue
		}
		msg := *m
		if colour, ok := lookup(m.SenderID); ok {
			msg.ProfileColour = colour
		}
		out = append(out, msg)
	}
	return out
}

// ByConversation returns the stored messages for a recipient set, resolved
// through the canonical key.
func (st *Store) ByConversation(users []string) []*model.Message {
	return st.byKey[model.Key(users)]
}

// Len returns the total number of stored messages.
func (st *Store) Len() int {
	return len(st.log)
}

func visibleTo(m *model.Message, identity string) bool {
	if len(m.RecipientIDs) == 0 {
		return true
	}
	if m.RecipientIDs[0] == model.GlobalSentinel {
		return true
	}
	return lo.Contains(m.RecipientIDs, identity)
}
