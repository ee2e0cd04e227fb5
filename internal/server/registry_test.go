package server

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"veilchat/internal/domain"
)

// fakePeer is a registry/router endpoint backed by a buffered channel.
type fakePeer struct {
	handle   string
	identity domain.Identity
	frames   chan domain.Frame
}

func newFakePeer(handle string, identity domain.Identity) *fakePeer {
	return &fakePeer{handle: handle, identity: identity, frames: make(chan domain.Frame, 16)}
}

func (p *fakePeer) Handle() string            { return p.handle }
func (p *fakePeer) Identity() domain.Identity { return p.identity }
func (p *fakePeer) Push(f domain.Frame) bool {
	select {
	case p.frames <- f:
		return true
	default:
		return false
	}
}

func (p *fakePeer) next(t *testing.T) domain.Frame {
	t.Helper()
	select {
	case f := <-p.frames:
		return f
	default:
		t.Fatal("no frame queued")
		return domain.Frame{}
	}
}

func testRegistry() *Registry { return NewRegistry(zerolog.Nop()) }

func TestRegistry_RegisterBroadcastsOnline(t *testing.T) {
	r := testRegistry()
	bob := newFakePeer("h-bob", "bob")
	r.Register(bob)
	require.Empty(t, bob.frames, "no self broadcast")

	alice := newFakePeer("h-alice", "alice")
	r.Register(alice)

	f := bob.next(t)
	require.Equal(t, domain.FrameFriendOnline, f.Type)
	var p domain.PresencePeer
	require.NoError(t, f.Decode(&p))
	require.Equal(t, domain.Identity("alice"), p.Identity)
	require.Empty(t, bob.frames, "exactly one event")
	require.Empty(t, alice.frames, "newcomer gets no event for itself")
}

func TestRegistry_DeregisterBroadcastsOffline(t *testing.T) {
	r := testRegistry()
	bob := newFakePeer("h-bob", "bob")
	alice := newFakePeer("h-alice", "alice")
	r.Register(bob)
	r.Register(alice)
	bob.next(t) // drain alice-online

	r.Deregister(alice)
	f := bob.next(t)
	require.Equal(t, domain.FrameFriendOffline, f.Type)
	var p domain.PresencePeer
	require.NoError(t, f.Decode(&p))
	require.Equal(t, domain.Identity("alice"), p.Identity)

	_, ok := r.Lookup("alice")
	require.False(t, ok)
}

func TestRegistry_LastWriterWins(t *testing.T) {
	r := testRegistry()
	first := newFakePeer("h-1", "alice")
	second := newFakePeer("h-2", "alice")

	require.Nil(t, r.Register(first))
	superseded := r.Register(second)
	require.Same(t, first, superseded)

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	require.Equal(t, "h-2", got.Handle())

	// The superseded connection closing later must not evict the new one.
	r.Deregister(first)
	got, ok = r.Lookup("alice")
	require.True(t, ok)
	require.Equal(t, "h-2", got.Handle())
}

func TestRegistry_Snapshot(t *testing.T) {
	r := testRegistry()
	r.Register(newFakePeer("h-b", "bob"))
	r.Register(newFakePeer("h-c", "carol"))
	r.Register(newFakePeer("h-a", "alice"))

	require.Equal(t, []domain.Identity{"bob", "carol"}, r.Snapshot("alice"))
	require.Equal(t, []domain.Identity{"alice", "bob", "carol"}, r.Snapshot(""))
}
