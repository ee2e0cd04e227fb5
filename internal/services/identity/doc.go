// Package identity manages creation, sealing and publication of the local
// key pair.
//
// It enforces passphrase policy, generates the RSA-2048 pair, persists the
// private half via domain.KeyVault, and publishes the public half to the
// directory.
package identity
