package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"veilchat/internal/config"
	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/metrics"
)

const (
	wsReadBuffer  = 1024
	wsWriteBuffer = 1024
	maxKeyBody    = 8 * 1024
)

// Server ties the relay together: the websocket endpoint, the presence
// registry and router behind it, and the colocated key directory.
type Server struct {
	log      zerolog.Logger
	cfg      *config.Config
	verifier TokenVerifier
	registry *Registry
	router   *Router
	keys     KeyStore
	upgrader websocket.Upgrader
}

// New builds a relay server.
func New(log zerolog.Logger, cfg *config.Config, verifier TokenVerifier, keys KeyStore) *Server {
	registry := NewRegistry(log)
	return &Server{
		log:      log.With().Str("component", "server").Logger(),
		cfg:      cfg,
		verifier: verifier,
		registry: registry,
		router:   NewRouter(log, registry),
		keys:     keys,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsReadBuffer,
			WriteBufferSize: wsWriteBuffer,
			// The bearer token authenticates the peer; browser origin checks
			// add nothing for non-browser clients.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Registry exposes the presence registry, mainly for tests.
func (s *Server) Registry() *Registry { return s.registry }

// Handler returns the relay's HTTP surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)

	r.Post("/keys/me", s.handleUploadKey)
	r.Get("/keys/{identity}", s.handleLookupKey)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWS runs the connection lifecycle: Authenticating on the handshake
// request, Rejected (401, no registry mutation) on a bad token, otherwise
// upgrade and hand the socket to a Session.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	identity, err := s.verifier.Verify(r.URL.Query().Get("token"))
	if err != nil {
		metrics.ConnectionsRejected.Inc()
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("websocket auth rejected")
		jsonError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	sess := newSession(s.log, ws, identity, s.registry, s.router, sessionTiming{
		writeTimeout: s.cfg.WriteTimeout,
		pingInterval: s.cfg.PingInterval,
		pongTimeout:  s.cfg.PongTimeout,
	})
	sess.run()
}

// handleUploadKey publishes the caller's public key under its bearer token.
func (s *Server) handleUploadKey(w http.ResponseWriter, r *http.Request) {
	identity, err := s.verifier.Verify(bearerToken(r))
	if err != nil {
		jsonError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var body struct {
		PublicKey string `json:"publicKey"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxKeyBody)
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, "malformed body")
		return
	}
	// The key is public material; validating the PEM here keeps garbage out
	// of the directory.
	if _, err := crypto.ImportPublicKey(body.PublicKey); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid public key")
		return
	}

	rec := domain.KeyRecord{Identity: identity, PublicKeyPEM: body.PublicKey, HasPublicKey: true}
	if err := s.keys.Put(rec); err != nil {
		s.log.Error().Err(err).Msg("store key record")
		jsonError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	metrics.KeysPublished.Inc()
	s.log.Info().Str("identity", identity.String()).Msg("public key published")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLookupKey returns the published key for an identity, or 404.
func (s *Server) handleLookupKey(w http.ResponseWriter, r *http.Request) {
	identity := domain.Identity(chi.URLParam(r, "identity"))
	rec, ok, err := s.keys.Get(identity)
	if err != nil {
		s.log.Error().Err(err).Msg("read key record")
		jsonError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	if !ok || !rec.HasPublicKey {
		metrics.KeyLookups.WithLabelValues("miss").Inc()
		jsonError(w, http.StatusNotFound, "no key published")
		return
	}
	metrics.KeyLookups.WithLabelValues("hit").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": rec.PublicKeyPEM})
}

// requestLogger returns a request logging middleware using zerolog.
func requestLogger(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("request_id", chimw.GetReqID(r.Context())).
					Str("remote_addr", r.RemoteAddr).
					Msg("request completed")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return after
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
