package crypto

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"veilchat/internal/util/memzero"
)

const (
	// KeyBytes is the derived key-encryption-key size.
	KeyBytes = chacha20poly1305.KeySize
	// SaltBytes is the Argon2id salt size.
	SaltBytes = 16
)

type sealedBlob struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	CT    []byte `json:"ct"`
}

// deriveKEK derives a key-encryption key from a passphrase and salt using
// Argon2id.
func deriveKEK(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 1<<16, 8, KeyBytes)
}

// SealWithPassphrase encrypts plaintext under a passphrase-derived key and
// returns a self-describing JSON blob (salt, nonce, ciphertext).
func SealWithPassphrase(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("draw salt: %w", err)
	}
	kek := deriveKEK(passphrase, salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("draw nonce: %w", err)
	}
	ct := aead.Seal(nil, nonce, plaintext, salt)
	return json.Marshal(sealedBlob{Salt: salt, Nonce: nonce, CT: ct})
}

// OpenWithPassphrase reverses SealWithPassphrase. A wrong passphrase fails the
// Poly1305 tag check.
func OpenWithPassphrase(passphrase string, blob []byte) ([]byte, error) {
	var env sealedBlob
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("parse sealed blob: %w", err)
	}
	if len(env.Salt) != SaltBytes {
		return nil, errors.New("sealed blob: bad salt size")
	}
	kek := deriveKEK(passphrase, env.Salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, env.Nonce, env.CT, env.Salt)
}
