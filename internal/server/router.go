package server

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"veilchat/internal/domain"
	"veilchat/internal/metrics"
)

// routingFields is the subset of a client-originated payload the router reads.
// Everything else in the payload stays opaque.
type routingFields struct {
	To domain.Identity `json:"to"`
}

// Router validates client frames and forwards them between connections using
// the registry. Envelopes addressed to an identity with no active connection
// are dropped: no retry, no queueing.
type Router struct {
	log      zerolog.Logger
	registry *Registry
}

// NewRouter returns a router over registry.
func NewRouter(log zerolog.Logger, registry *Registry) *Router {
	return &Router{
		log:      log.With().Str("component", "router").Logger(),
		registry: registry,
	}
}

// Route handles one frame sent by from. It returns an error only for protocol
// violations (unknown tag, missing fields); a routing miss is not an error.
func (r *Router) Route(from Peer, frame domain.Frame) error {
	if !frame.Type.Known() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownFrameType, frame.Type)
	}
	if !frame.Type.ClientOriginated() {
		return fmt.Errorf("%w: %s is relay-originated", domain.ErrBadFrame, frame.Type)
	}

	var route routingFields
	if err := json.Unmarshal(frame.Payload, &route); err != nil || route.To == "" {
		metrics.EnvelopesDropped.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: %s missing recipient", domain.ErrBadFrame, frame.Type)
	}

	forwarded, err := retag(frame, from.Identity())
	if err != nil {
		metrics.EnvelopesDropped.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: %v", domain.ErrBadFrame, err)
	}

	kind := "message"
	if frame.Type == domain.FrameFileSend {
		kind = "file"
	}

	to, ok := r.registry.Lookup(route.To)
	if !ok {
		// Accepted behavior: the sender is not told about the miss.
		metrics.EnvelopesDropped.WithLabelValues("offline").Inc()
		r.log.Debug().Str("from", from.Identity().String()).Str("to", route.To.String()).
			Str("type", string(frame.Type)).Msg("recipient offline, envelope dropped")
		return nil
	}
	if !to.Push(forwarded) {
		metrics.EnvelopesDropped.WithLabelValues("slow_consumer").Inc()
		r.log.Warn().Str("to", route.To.String()).Str("type", string(frame.Type)).
			Msg("outbound queue full, envelope dropped")
		return nil
	}
	metrics.EnvelopesRouted.WithLabelValues(kind).Inc()
	return nil
}

// retag converts a client-originated frame into its relay-originated mirror:
// the to field is replaced by an authoritative from, everything else is
// forwarded verbatim.
func retag(frame domain.Frame, from domain.Identity) (domain.Frame, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		return domain.Frame{}, err
	}
	delete(payload, "to")
	fromRaw, err := json.Marshal(from)
	if err != nil {
		return domain.Frame{}, err
	}
	payload["from"] = fromRaw

	outType := domain.FrameMessageReceive
	if frame.Type == domain.FrameFileSend {
		outType = domain.FrameFileReceive
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.Frame{}, err
	}
	return domain.Frame{Type: outType, Payload: raw}, nil
}
