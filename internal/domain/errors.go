package domain

import "errors"

var (
	// ErrInvalidKeyFormat is returned when a PEM public key is empty, lacks
	// PEM delimiters, or fails DER decoding.
	ErrInvalidKeyFormat = errors.New("invalid public key format")

	// ErrPlaintextTooLarge is returned when a plaintext exceeds the RSA-OAEP
	// bound for the modulus/hash pair.
	ErrPlaintextTooLarge = errors.New("plaintext exceeds OAEP limit")

	// ErrDecryption covers every decrypt failure: wrong key, corrupted
	// ciphertext, or authentication tag mismatch. Callers must treat it as one
	// opaque failure mode.
	ErrDecryption = errors.New("decryption failed")

	// ErrKeyNotFound is returned when the directory has no published public
	// key for an identity. Sends abort before any network write.
	ErrKeyNotFound = errors.New("no published public key for identity")

	// ErrUnauthorized is returned for a bad or missing bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnknownFrameType is returned when a frame carries a tag outside the
	// protocol. Unknown tags are rejected, never silently ignored.
	ErrUnknownFrameType = errors.New("unknown frame type")

	// ErrBadFrame is returned when a known frame is missing required fields or
	// its payload does not decode.
	ErrBadFrame = errors.New("malformed frame")
)
