package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connection metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "veilchat_connections_active",
			Help: "Currently active websocket connections",
		},
	)

	ConnectionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "veilchat_connections_rejected_total",
			Help: "Connections rejected at authentication",
		},
	)

	// Routing metrics
	EnvelopesRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veilchat_envelopes_routed_total",
			Help: "Envelopes forwarded to a recipient",
		},
		[]string{"type"}, // "message" or "file"
	)

	EnvelopesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veilchat_envelopes_dropped_total",
			Help: "Envelopes dropped without delivery",
		},
		[]string{"reason"}, // "offline", "invalid", "slow_consumer"
	)

	// Presence metrics
	PresenceBroadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veilchat_presence_broadcasts_total",
			Help: "Presence events fanned out to peers",
		},
		[]string{"event"}, // "online" or "offline"
	)

	// Directory metrics
	KeysPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "veilchat_keys_published_total",
			Help: "Public keys uploaded to the directory",
		},
	)

	KeyLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "veilchat_key_lookups_total",
			Help: "Directory lookups",
		},
		[]string{"result"}, // "hit" or "miss"
	)
)
