// Package server implements the relay: bearer-token authentication, the
// presence registry, envelope routing between live connections, and the
// colocated public-key directory.
//
// The relay moves opaque ciphertext. It validates frame tags and routing
// fields (from, to, type) and forwards payloads verbatim; it has no key
// material and never decodes, inspects, or logs payload content.
package server
