// Package wire defines the JSON frames exchanged with connected peers and
// validates inbound payloads at the boundary so the relay core only ever
// sees well-formed input.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	relay "github.com/parley-chat/parley/internal/model/relay"
)

// Inbound frame types.
const (
	TypeReady              = "ready"
	TypeGetMessages        = "get_messages"
	TypeMessage            = "message"
	TypeCreateConversation = "create_conversation"
)

// Outbound frame types.
const (
	TypeConnection = "connection"
	TypeMessages   = "messages"
	TypeError      = "error"
)

// ErrProtocol marks a frame that could not be decoded or failed
// required-field validation.
var ErrProtocol = errors.New("protocol error")

var validate = validator.New()

// Frame is the envelope of every wire message.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MessagePayload carries an outgoing chat message from a peer.
type MessagePayload struct {
	RecipientIDs []string `json:"recipientIds"`
	Body         string   `json:"body" validate:"required"`
	AuthToken    string   `json:"authToken" validate:"required"`
}

// CreateConversationPayload requests an explicit conversation.
type CreateConversationPayload struct {
	Users     []string `json:"users" validate:"required"`
	AuthToken string   `json:"authToken" validate:"required"`
}

// GetMessagesPayload requests the peer's enriched message view.
type GetMessagesPayload struct {
	AuthToken string `json:"authToken" validate:"required"`
}

// Inbound is the tagged variant produced by DecodeInbound. Exactly one of
// the payload fields matching Type is populated.
type Inbound struct {
	Type               string
	Message            *MessagePayload
	CreateConversation *CreateConversationPayload
	GetMessages        *GetMessagesPayload
}

// AuthToken returns the bearer token carried by the frame, empty for kinds
// that do not require one.
func (in *Inbound) AuthToken() string {
	switch in.Type {
	case TypeMessage:
		return in.Message.AuthToken
	case TypeCreateConversation:
		return in.CreateConversation.AuthToken
	case TypeGetMessages:
		return in.GetMessages.AuthToken
	}
	return ""
}

// DecodeInbound parses and validates a raw text frame. Any malformed input
// is reported as ErrProtocol; the caller decides whether to reply or drop.
func DecodeInbound(raw []byte) (*Inbound, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: invalid frame: %v", ErrProtocol, err)
	}

	in := &Inbound{Type: frame.Type}
	switch frame.Type {
	case TypeReady:
		// ready carries no required payload
		return in, nil
	case TypeGetMessages:
		in.GetMessages = &GetMessagesPayload{}
		return in, decodePayload(frame.Data, in.GetMessages)
	case TypeMessage:
		in.Message = &MessagePayload{}
		return in, decodePayload(frame.Data, in.Message)
	case TypeCreateConversation:
		in.CreateConversation = &CreateConversationPayload{}
		return in, decodePayload(frame.Data, in.CreateConversation)
	default:
		return nil, fmt.Errorf("%w: unknown frame type %q", ErrProtocol, frame.Type)
	}
}

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing data", ErrProtocol)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: invalid data: %v", ErrProtocol, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return nil
}

// Status reports the outcome of an operation to a peer.
type Status struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the outbound counterpart of Frame.
type Envelope struct {
	Type   string  `json:"type"`
	Status *Status `json:"status,omitempty"`
	Data   any     `json:"data,omitempty"`
}

// ConnectionData answers a ready frame.
type ConnectionData struct {
	UserID        string               `json:"userId"`
	AuthToken     string               `json:"authToken"`
	Conversations []relay.Conversation `json:"conversations"`
}

// ConversationData echoes the recipient set of a created conversation.
type ConversationData struct {
	FilteredUsers []string `json:"filteredUsers"`
}

// MessagesData carries a peer's filtered message view.
type MessagesData struct {
	Messages []relay.Message `json:"messages"`
}

// Connected builds the reply to a ready frame.
func Connected(userID, authToken string, conversations []relay.Conversation) Envelope {
	return Envelope{
		Type:   TypeConnection,
		Status: &Status{Code: "success", Message: "Connection established"},
		Data:   ConnectionData{UserID: userID, AuthToken: authToken, Conversations: conversations},
	}
}

// ConversationCreated notifies a peer about a new conversation membership.
func ConversationCreated(users []string) Envelope {
	return Envelope{
		Type:   TypeCreateConversation,
		Status: &Status{Code: "success", Message: "Conversation created"},
		Data:   ConversationData{FilteredUsers: users},
	}
}

// ConversationExists reports a create_conversation conflict. It carries no
// data, matching the failure shape clients expect.
func ConversationExists() Envelope {
	return Envelope{
		Type:   TypeCreateConversation,
		Status: &Status{Code: "failure", Message: "Conversation already exists"},
	}
}

// Messages wraps a peer's message view for delivery.
func Messages(msgs []relay.Message) Envelope {
	return Envelope{Type: TypeMessages, Data: MessagesData{Messages: msgs}}
}

// ProtocolFailure reports a malformed frame back to the offending peer.
func ProtocolFailure(reason string) Envelope {
	return Envelope{
		Type:   TypeError,
		Status: &Status{Code: "failure", Message: reason},
	}
}
