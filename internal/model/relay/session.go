package relay

// State tracks where a connection is in its lifecycle. Closed is terminal.
type State int

const (
	StateConnecting State = iota
	StateActive
	StateClosed
)

// Session is the relay-side state for one connected peer. The identity is
// unique among currently connected sessions and is freed for reuse on
// disconnect; the auth token is minted fresh per connection and never reused.
type Session struct {
	Identity      string
	AuthToken     string
	Colour        string
	State         State
	Conversations []Conversation
}

// Knows reports whether the session already holds a membership for the
// given recipient set.
func (s *Session) Knows(users []string) bool {
	for _, c := range s.Conversations {
		if SameSet(c.Users, users) {
			return true
		}
	}
	return false
}
