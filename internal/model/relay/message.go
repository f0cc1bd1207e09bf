package relay

import "time"

// Message is one relayed chat message. RecipientIDs is immutable once the
// message is stored; ProfileColour is re-resolved at read time from the
// sender's current session when the sender is still connected.
type Message struct {
	ID            string    `json:"id,omitempty"`
	SenderID      string    `json:"senderId"`
	RecipientIDs  []string  `json:"recipientIds"`
	Body          string    `json:"body"`
	ProfileColour string    `json:"profileColour,omitempty"`
	SentAt        time.Time `json:"sentAt,omitzero"`
}
