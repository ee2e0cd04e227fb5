// Package main runs the veilchat relay: the websocket endpoint that moves
// opaque ciphertext between identities, and the colocated public-key
// directory.
//
// HTTP API
//
//	GET /ws?token=<bearer-token>
//	    Upgrade to the per-client websocket. A bad token is rejected with 401
//	    before the upgrade; the connection never reaches the registry.
//
//	POST /keys/me {publicKey}
//	    Publish the caller's PEM public key. Bearer auth; re-upload replaces.
//
//	GET /keys/{identity}
//	    Return {publicKey} for the identity, or 404.
//
//	GET /healthz, GET /metrics
//	    Liveness and Prometheus metrics.
//
// Behaviour
//
//   - Presence and routing state live in memory; the key directory can be
//     persisted with RELAY_KEYDB_PATH (bbolt).
//   - Envelopes addressed to an offline identity are dropped silently.
//   - The relay holds no private keys; it forwards ciphertext verbatim and
//     never logs payload content.
package main
