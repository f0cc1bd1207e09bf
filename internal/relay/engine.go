package relay

import (
	"context"
	"log"

	"github.com/samber/lo"

	model "github.com/parley-chat/parley/internal/model/relay"
	"github.com/parley-chat/parley/internal/model/wire"
)

type eventKind int

const (
	eventConnect eventKind = iota
	eventFrame
	eventClose
)

type event struct {
	kind eventKind
	peer Peer
	raw  []byte
}

// Engine is the relay's state machine. Every registry, index and store
// mutation happens on the single goroutine draining the event channel, so
// no two inbound frames are ever processed concurrently and the shared
// state needs no locking.
type Engine struct {
	registry *Registry
	index    *Index
	store    *Store
	metrics  *Metrics
	events   chan event
}

// NewEngine wires the relay core together. Run must be started before
// peers are connected.
func NewEngine(registry *Registry, index *Index, store *Store, metrics *Metrics) *Engine {
	return &Engine{
		registry: registry,
		index:    index,
		store:    store,
		metrics:  metrics,
		events:   make(chan event, 256),
	}
}

// Connect enqueues a new peer for registration.
func (e *Engine) Connect(p Peer) {
	e.events <- event{kind: eventConnect, peer: p}
}

// Frame enqueues an inbound text frame from a peer.
func (e *Engine) Frame(p Peer, raw []byte) {
	e.events <- event{kind: eventFrame, peer: p, raw: raw}
}

// Disconnect enqueues the peer's close notification.
func (e *Engine) Disconnect(p Peer) {
	e.events <- event{kind: eventClose, peer: p}
}

// Run drains the event queue until the context is cancelled. It is the only
// goroutine that touches the registry, index and store.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-e.events:
			e.dispatch(ev)
		}
	}
}

func (e *Engine) dispatch(ev event) {
	switch ev.kind {
	case eventConnect:
		e.handleConnect(ev.peer)
	case eventFrame:
		e.handleFrame(ev.peer, ev.raw)
	case eventClose:
		e.handleClose(ev.peer)
	}
}

func (e *Engine) handleConnect(p Peer) {
	session := e.registry.Register(p)
	e.metrics.ConnectedSessions.Inc()
	log.Printf("[relay] %s connected", session.Identity)
}

func (e *Engine) handleClose(p Peer) {
	session, ok := e.registry.Lookup(p)
	if !ok {
		return
	}
	session.State = model.StateClosed
	e.registry.Deregister(p)
	e.metrics.ConnectedSessions.Dec()
	log.Printf("[relay] %s disconnected", session.Identity)
}

func (e *Engine) handleFrame(p Peer, raw []byte) {
	session, ok := e.registry.Lookup(p)
	if !ok {
		// already closed
		return
	}

	in, err := wire.DecodeInbound(raw)
	if err != nil {
		e.metrics.FramesRejected.Inc()
		log.Printf("[relay] malformed frame from %s: %v", session.Identity, err)
		e.send(p, wire.ProtocolFailure("malformed frame"))
		return
	}

	if in.Type != wire.TypeReady && in.AuthToken() != session.AuthToken {
		e.metrics.FramesRejected.Inc()
		log.Printf("[relay] rejected unauthenticated %s frame from %s", in.Type, session.Identity)
		return
	}

	switch in.Type {
	case wire.TypeGetMessages:
		e.sendMessages(p, session.Identity)
	case wire.TypeReady:
		e.handleReady(p, session)
	case wire.TypeMessage:
		e.handleMessage(session, in.Message)
	case wire.TypeCreateConversation:
		e.handleCreateConversation(p, session, in.CreateConversation)
	}
}

// handleReady transitions the session to active, reconciles conversations
// created while it was not listening, and replies with its credentials.
// Idempotent: a second ready simply re-runs reconciliation.
func (e *Engine) handleReady(p Peer, session *model.Session) {
	session.State = model.StateActive
	if added := e.index.Reconcile(session); added > 0 {
		log.Printf("[relay] reconciled %d conversation(s) for %s", added, session.Identity)
	}
	e.send(p, wire.Connected(session.Identity, session.AuthToken, session.Conversations))
}

// handleMessage appends the message, grows conversation memberships on
// every addressed session that lacks one, and broadcasts each peer's
// refreshed message view.
func (e *Engine) handleMessage(sender *model.Session, payload *wire.MessagePayload) {
	recipients := lo.Uniq(payload.RecipientIDs)
	if len(recipients) == 0 {
		recipients = []string{model.GlobalSentinel}
	}

	msg := &model.Message{
		SenderID:      sender.Identity,
		RecipientIDs:  recipients,
		Body:          payload.Body,
		ProfileColour: sender.Colour,
	}
	e.store.Append(msg)
	e.metrics.MessagesRelayed.Inc()

	entries := e.registry.Snapshot()
	for _, entry := range entries {
		if entry.Session == sender {
			continue
		}
		if !lo.Contains(recipients, entry.Session.Identity) {
			continue
		}
		if entry.Session.Knows(recipients) {
			continue
		}
		entry.Session.Conversations = append(entry.Session.Conversations, model.Conversation{Users: recipients})
		e.index.RecordCreated(recipients)
		e.metrics.ConversationsCreated.Inc()
		e.send(entry.Peer, wire.ConversationCreated(recipients))
	}

	// every peer gets its own identity-filtered view; non-recipients simply
	// see no new rows
	for _, entry := range entries {
		e.sendMessages(entry.Peer, entry.Session.Identity)
	}
}

// handleCreateConversation records a membership visible only to the
// requester. The addressed users learn about the conversation when a
// message is first sent or at their next ready reconciliation.
func (e *Engine) handleCreateConversation(p Peer, session *model.Session, payload *wire.CreateConversationPayload) {
	filtered := lo.Filter(lo.Uniq(payload.Users), func(u string, _ int) bool {
		return e.registry.Has(u)
	})

	unknown := lo.CountBy(filtered, func(u string) bool {
		for _, c := range session.Conversations {
			if lo.Contains(c.Users, u) {
				return false
			}
		}
		return true
	})
	if unknown == 0 {
		e.send(p, wire.ConversationExists())
		return
	}

	session.Conversations = append(session.Conversations, model.Conversation{Users: filtered})
	e.send(p, wire.ConversationCreated(filtered))
}

func (e *Engine) sendMessages(p Peer, identity string) {
	view := e.store.MessagesFor(identity, e.colourOf)
	e.send(p, wire.Messages(view))
}

func (e *Engine) colourOf(identity string) (string, bool) {
	session, ok := e.registry.ByIdentity(identity)
	if !ok {
		return "", false
	}
	return session.Colour, true
}

func (e *Engine) send(p Peer, v any) {
	if err := p.Send(v); err != nil {
		log.Printf("[relay] send failed: %v", err)
	}
}
