package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"

	"veilchat/internal/domain"
	"veilchat/internal/util/memzero"
)

const (
	// fileKeyBytes is the one-time AES key size (AES-256).
	fileKeyBytes = 32
	// gcmNonceBytes is the GCM nonce length prefixed to the sealed file.
	gcmNonceBytes = 12
)

// EncryptFile seals data of arbitrary length for the holder of pub.
//
// A fresh 256-bit AES-GCM key and 96-bit nonce are drawn per call; sealedFile
// is base64(nonce || ciphertext) and sealedKey is the raw AES key wrapped with
// RSA-OAEP under pub. RSA alone cannot carry bulk payloads, so it only ever
// wraps the fixed-size key.
func EncryptFile(data []byte, pub *rsa.PublicKey) (sealedFile, sealedKey string, err error) {
	key := make([]byte, fileKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return "", "", fmt.Errorf("draw file key: %w", err)
	}
	defer memzero.Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", fmt.Errorf("init aes: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", fmt.Errorf("init gcm: %w", err)
	}
	nonce := make([]byte, gcmNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", "", fmt.Errorf("draw nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, data, nil)

	wrapped, err := Encrypt(key, pub)
	if err != nil {
		return "", "", fmt.Errorf("wrap file key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), wrapped, nil
}

// DecryptFile reverses EncryptFile: unwrap the AES key with priv, split the
// nonce prefix, and open the GCM ciphertext. Every failure in either step,
// wrong key, truncated data, or tag mismatch, is domain.ErrDecryption.
func DecryptFile(sealedFile, sealedKey string, priv *rsa.PrivateKey) ([]byte, error) {
	key, err := Decrypt(sealedKey, priv)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)
	if len(key) != fileKeyBytes {
		return nil, fmt.Errorf("%w: bad file key length", domain.ErrDecryption)
	}

	sealed, err := base64.StdEncoding.DecodeString(sealedFile)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64", domain.ErrDecryption)
	}
	if len(sealed) < gcmNonceBytes {
		return nil, fmt.Errorf("%w: sealed file too short", domain.ErrDecryption)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}
	nonce, ct := sealed[:gcmNonceBytes], sealed[gcmNonceBytes:]
	data, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}
	return data, nil
}
