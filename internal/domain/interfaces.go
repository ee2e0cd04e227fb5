package domain

import (
	"context"
	"crypto/rsa"
)

// CryptoProvider exposes the client's cryptographic capability: RSA-OAEP for
// short payloads and hybrid AES-GCM for arbitrary-length files. Any compliant
// crypto engine can implement it; the rest of the client never touches
// primitives directly.
type CryptoProvider interface {
	GenerateKeyPair() (*rsa.PublicKey, *rsa.PrivateKey, error)
	ExportPublicKey(pub *rsa.PublicKey) (string, error)
	ImportPublicKey(pemStr string) (*rsa.PublicKey, error)

	// Encrypt seals a short plaintext under pub and returns base64 ciphertext.
	Encrypt(plaintext []byte, pub *rsa.PublicKey) (string, error)
	// Decrypt reverses Encrypt with the local private key.
	Decrypt(ciphertext string, priv *rsa.PrivateKey) ([]byte, error)

	// EncryptFile seals data of any length: sealedFile is nonce-prefixed
	// AES-GCM ciphertext, sealedKey the RSA-wrapped one-time key.
	EncryptFile(data []byte, pub *rsa.PublicKey) (sealedFile, sealedKey string, err error)
	// DecryptFile reverses EncryptFile with the local private key.
	DecryptFile(sealedFile, sealedKey string, priv *rsa.PrivateKey) ([]byte, error)
}

// KeyVault owns the client's private key material. The material never leaves
// the local store; only the public half is ever exported.
type KeyVault interface {
	// SaveKeyPair persists the private key encrypted under the passphrase.
	SaveKeyPair(passphrase string, priv *rsa.PrivateKey) error
	// LoadKeyPair decrypts and returns the private key.
	LoadKeyPair(passphrase string) (*rsa.PrivateKey, error)
	// HasKeyPair reports whether key material exists on disk.
	HasKeyPair() (bool, error)
}

// Directory is the identity to public-key lookup/upload service consumed by
// the client.
type Directory interface {
	// Lookup returns the published PEM public key for identity, or
	// ErrKeyNotFound.
	Lookup(ctx context.Context, identity Identity) (string, error)
	// Upload publishes the caller's public key under its bearer token, or
	// returns ErrUnauthorized.
	Upload(ctx context.Context, publicKeyPEM string) error
}

// KeyCache retains successful directory lookups for the session.
type KeyCache interface {
	Get(identity Identity) (*rsa.PublicKey, bool)
	Put(identity Identity, pub *rsa.PublicKey)
}
