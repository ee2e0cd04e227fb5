package server

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"veilchat/internal/domain"
	"veilchat/internal/metrics"
)

// ConnState tracks a connection through its lifecycle.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateAuthenticating
	StateActive
	StateClosing
	StateClosed
	StateRejected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

const (
	// maxFrameBytes bounds a single websocket frame; oversized frames tear
	// the connection down.
	maxFrameBytes = 32 << 20

	// outboundDepth is the per-connection outbound queue. A full queue drops
	// frames rather than blocking the relay.
	outboundDepth = 256
)

// sessionTiming carries the websocket keepalive tuning.
type sessionTiming struct {
	writeTimeout time.Duration
	pingInterval time.Duration
	pongTimeout  time.Duration
}

// Session is one authenticated connection. It owns the websocket: one
// goroutine reads, one writes, and every other goroutine reaches the
// connection only through Push.
type Session struct {
	log      zerolog.Logger
	ws       *websocket.Conn
	handle   string
	identity domain.Identity
	since    time.Time

	registry *Registry
	router   *Router
	timing   sessionTiming

	out  chan domain.Frame
	done chan struct{}

	state     atomic.Int32
	closeOnce sync.Once
}

// newSession wraps an upgraded, authenticated websocket.
func newSession(log zerolog.Logger, ws *websocket.Conn, identity domain.Identity, registry *Registry, router *Router, timing sessionTiming) *Session {
	handle := uuid.NewString()
	s := &Session{
		log: log.With().Str("component", "session").
			Str("identity", identity.String()).Str("handle", handle).Logger(),
		ws:       ws,
		handle:   handle,
		identity: identity,
		since:    time.Now(),
		registry: registry,
		router:   router,
		timing:   timing,
		out:      make(chan domain.Frame, outboundDepth),
		done:     make(chan struct{}),
	}
	s.state.Store(int32(StateAuthenticating))
	return s
}

// Handle returns the unique connection handle.
func (s *Session) Handle() string { return s.handle }

// Identity returns the authenticated identity.
func (s *Session) Identity() domain.Identity { return s.identity }

// State returns the current lifecycle state.
func (s *Session) State() ConnState { return ConnState(s.state.Load()) }

// Push queues a frame for delivery without blocking. It reports false when
// the session is closing or its outbound queue is full.
func (s *Session) Push(frame domain.Frame) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- frame:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

// run drives the session: register presence, send the online snapshot, then
// pump frames until the transport dies. It blocks until the session is closed.
func (s *Session) run() {
	s.state.Store(int32(StateActive))
	metrics.ConnectionsActive.Inc()
	defer metrics.ConnectionsActive.Dec()

	s.registry.Register(s)
	defer s.close()

	// Entering Active starts with the snapshot of who is already online.
	snapshot := s.registry.Snapshot(s.identity)
	peers := make([]domain.PresencePeer, 0, len(snapshot))
	for _, identity := range snapshot {
		peers = append(peers, domain.PresencePeer{Identity: identity})
	}
	if frame, err := domain.NewFrame(domain.FrameOnlineList, peers); err == nil {
		s.Push(frame)
	}

	go s.writePump()
	s.readPump()
}

// readPump delivers inbound frames to the router in arrival order, which
// preserves per-sender ordering. It exits on transport close, read timeout,
// or protocol error.
func (s *Session) readPump() {
	s.ws.SetReadLimit(maxFrameBytes)
	_ = s.ws.SetReadDeadline(time.Now().Add(s.timing.pongTimeout))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(s.timing.pongTimeout))
	})

	for {
		var frame domain.Frame
		if err := s.ws.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Err(err).Msg("transport closed")
			}
			return
		}
		if err := s.router.Route(s, frame); err != nil {
			if errors.Is(err, domain.ErrUnknownFrameType) || errors.Is(err, domain.ErrBadFrame) {
				s.log.Warn().Err(err).Msg("protocol error, closing")
				return
			}
			s.log.Error().Err(err).Msg("route")
		}
	}
}

// writePump owns all writes to the websocket: queued frames, keepalive pings,
// and the final close message.
func (s *Session) writePump() {
	ticker := time.NewTicker(s.timing.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame := <-s.out:
			_ = s.ws.SetWriteDeadline(time.Now().Add(s.timing.writeTimeout))
			if err := s.ws.WriteJSON(frame); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			_ = s.ws.SetWriteDeadline(time.Now().Add(s.timing.writeTimeout))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			_ = s.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.timing.writeTimeout))
			return
		}
	}
}

// close tears the session down: deregister presence, signal the pumps, close
// the transport. Double-close is a no-op.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosing))
		s.registry.Deregister(s)
		close(s.done)
		_ = s.ws.Close()
		s.state.Store(int32(StateClosed))
		s.log.Debug().Msg("session closed")
	})
}
