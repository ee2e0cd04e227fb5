// Package memzero provides best-effort wiping of sensitive byte slices:
// derived key-encryption keys, one-time file keys, and private key DER
// between parse and discard.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros in a constant-time friendly way. Best-effort:
// copies made by callers or the runtime are out of reach.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
