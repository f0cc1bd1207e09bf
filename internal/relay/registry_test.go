package relay_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	model "github.com/parley-chat/parley/internal/model/relay"
	"github.com/parley-chat/parley/internal/relay"
)

type stubPeer struct {
	sent []any
}

func (s *stubPeer) Send(v any) error {
	s.sent = append(s.sent, v)
	return nil
}

func TestRegistryRegisterAssignsSequentialIdentities(t *testing.T) {
	req := require.New(t)
	reg := relay.NewRegistry()

	s1 := reg.Register(&stubPeer{})
	s2 := reg.Register(&stubPeer{})

	req.Equal("User#1000", s1.Identity)
	req.Equal("User#1001", s2.Identity)
	req.NotEqual(s1.AuthToken, s2.AuthToken)
	req.Equal(model.StateConnecting, s1.State)
	req.Len(s1.Conversations, 1)
	req.Equal(model.GlobalMembership(), s1.Conversations[0])
}

func TestRegistryLookup(t *testing.T) {
	req := require.New(t)
	reg := relay.NewRegistry()
	p := &stubPeer{}

	s := reg.Register(p)

	got, ok := reg.Lookup(p)
	req.True(ok)
	req.Same(s, got)

	_, ok = reg.Lookup(&stubPeer{})
	req.False(ok)
}

func TestRegistryDeregisterFreesIdentity(t *testing.T) {
	req := require.New(t)
	reg := relay.NewRegistry()
	p1 := &stubPeer{}

	s1 := reg.Register(p1)
	req.True(reg.Has(s1.Identity))

	reg.Deregister(p1)
	// idempotent
	reg.Deregister(p1)

	req.False(reg.Has(s1.Identity))
	req.Zero(reg.Len())

	// a newly connecting peer may be assigned the freed identity
	s2 := reg.Register(&stubPeer{})
	req.Equal("User#1000", s2.Identity)
	req.NotEqual(s1.AuthToken, s2.AuthToken)
}

func TestRegistrySnapshot(t *testing.T) {
	req := require.New(t)
	reg := relay.NewRegistry()
	reg.Register(&stubPeer{})
	reg.Register(&stubPeer{})

	entries := reg.Snapshot()
	req.Len(entries, 2)

	identities := map[string]bool{}
	for _, entry := range entries {
		req.NotNil(entry.Peer)
		identities[entry.Session.Identity] = true
	}
	req.True(identities["User#1000"])
	req.True(identities["User#1001"])
}

func TestRegistryByIdentity(t *testing.T) {
	req := require.New(t)
	reg := relay.NewRegistry()
	s := reg.Register(&stubPeer{})

	got, ok := reg.ByIdentity(s.Identity)
	req.True(ok)
	req.Same(s, got)

	_, ok = reg.ByIdentity("User#9999")
	req.False(ok)
}
