package server

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"veilchat/internal/domain"
	"veilchat/internal/metrics"
)

// Peer is what the registry and router need from a live connection.
type Peer interface {
	Handle() string
	Identity() domain.Identity
	// Push queues a frame on the connection's outbound channel without
	// blocking. It reports false if the frame was dropped.
	Push(domain.Frame) bool
}

type presenceEntry struct {
	peer  Peer
	since time.Time
}

// Registry is the source of truth for who is reachable. It maps each identity
// to its authoritative live connection behind a mutex; connection goroutines
// share no other state.
type Registry struct {
	log zerolog.Logger

	mu   sync.Mutex
	live map[domain.Identity]presenceEntry
}

// NewRegistry returns an empty presence registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		log:  log.With().Str("component", "registry").Logger(),
		live: make(map[domain.Identity]presenceEntry),
	}
}

// Register makes peer the authoritative connection for its identity and
// broadcasts friend:online to every other registered connection. If an entry
// already exists the policy is last-writer-wins: the prior connection is
// returned superseded, not closed.
func (r *Registry) Register(peer Peer) (superseded Peer) {
	identity := peer.Identity()

	r.mu.Lock()
	if prev, ok := r.live[identity]; ok {
		superseded = prev.peer
	}
	r.live[identity] = presenceEntry{peer: peer, since: time.Now()}
	others := r.peersExcept(identity)
	r.mu.Unlock()

	r.log.Info().Str("identity", identity.String()).Str("handle", peer.Handle()).
		Bool("superseded", superseded != nil).Msg("identity online")
	r.fanOut(domain.FrameFriendOnline, identity, others)
	return superseded
}

// Deregister removes peer's entry and broadcasts friend:offline. A superseded
// connection closing later is a no-op: only the authoritative handle may
// remove the entry.
func (r *Registry) Deregister(peer Peer) {
	identity := peer.Identity()

	r.mu.Lock()
	entry, ok := r.live[identity]
	if !ok || entry.peer.Handle() != peer.Handle() {
		r.mu.Unlock()
		return
	}
	delete(r.live, identity)
	others := r.peersExcept(identity)
	r.mu.Unlock()

	r.log.Info().Str("identity", identity.String()).Str("handle", peer.Handle()).
		Msg("identity offline")
	r.fanOut(domain.FrameFriendOffline, identity, others)
}

// Lookup returns the authoritative connection for identity.
func (r *Registry) Lookup(identity domain.Identity) (Peer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.live[identity]
	if !ok {
		return nil, false
	}
	return entry.peer, true
}

// Snapshot returns all currently online identities except exclude, sorted for
// stable output. It answers a newly-active client's initial presence query.
func (r *Registry) Snapshot(exclude domain.Identity) []domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Identity, 0, len(r.live))
	for identity := range r.live {
		if identity != exclude {
			out = append(out, identity)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// peersExcept must be called with the lock held.
func (r *Registry) peersExcept(exclude domain.Identity) []Peer {
	out := make([]Peer, 0, len(r.live))
	for identity, entry := range r.live {
		if identity != exclude {
			out = append(out, entry.peer)
		}
	}
	return out
}

// fanOut pushes a presence frame to each peer. Broadcasts are fire-and-forget
// and best-effort: a connection closing concurrently may miss the event.
func (r *Registry) fanOut(t domain.FrameType, identity domain.Identity, peers []Peer) {
	if len(peers) == 0 {
		return
	}
	frame, err := domain.NewFrame(t, domain.PresencePeer{Identity: identity})
	if err != nil {
		r.log.Error().Err(err).Msg("build presence frame")
		return
	}
	event := "online"
	if t == domain.FrameFriendOffline {
		event = "offline"
	}
	for _, p := range peers {
		if p.Push(frame) {
			metrics.PresenceBroadcasts.WithLabelValues(event).Inc()
		}
	}
}
