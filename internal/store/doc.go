// Package store persists client-side state: the key vault holding the local
// RSA private key (encrypted at rest with a passphrase) and the per-session
// cache of recipient public keys. Private key material never leaves this
// store except as an in-memory *rsa.PrivateKey handed to the crypto layer.
package store
