package relay

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// GlobalSentinel is the reserved recipient value meaning "broadcast to
// everyone". Messages with no recipients are addressed to it.
const GlobalSentinel = "global-chat"

// GlobalName is the display name of the global conversation.
const GlobalName = "Global Chat"

// Conversation is a session's local record of a recipient set it knows
// about. Name is optional and only populated for the global conversation.
type Conversation struct {
	Name  string   `json:"name,omitempty"`
	Users []string `json:"users"`
}

// GlobalMembership returns the conversation every session starts with.
func GlobalMembership() Conversation {
	return Conversation{Name: GlobalName, Users: []string{GlobalSentinel}}
}

// Key canonicalizes a recipient set: sorted, deduplicated, "|"-joined.
// Two recipient sets denote the same conversation iff their keys are equal,
// regardless of order or duplicates.
func Key(users []string) string {
	return strings.Join(normalize(users), "|")
}

// SameSet reports set-equality of two recipient lists.
func SameSet(a, b []string) bool {
	na, nb := normalize(a), normalize(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

func normalize(users []string) []string {
	out := lo.Uniq(users)
	sort.Strings(out)
	return out
}
