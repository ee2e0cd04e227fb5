package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"

	"veilchat/internal/domain"
)

const (
	// rsaBits is the modulus size for generated key pairs.
	rsaBits = 2048

	// publicKeyPEMType is the PEM block type for SPKI-encoded public keys.
	publicKeyPEMType = "PUBLIC KEY"
)

// OAEPLimit is the largest plaintext Encrypt accepts: k - 2*hLen - 2 bytes for
// a 2048-bit modulus and SHA-256 (256 - 64 - 2 = 190).
const OAEPLimit = rsaBits/8 - 2*sha256.Size - 2

// GenerateKeyPair creates a fresh RSA-2048 key pair (e = 65537). Entropy
// source failure is the only error path and is fatal for the caller.
func GenerateKeyPair() (*rsa.PublicKey, *rsa.PrivateKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, rsaBits)
	if err != nil {
		return nil, nil, fmt.Errorf("generate rsa key pair: %w", err)
	}
	return &priv.PublicKey, priv, nil
}

// ExportPublicKey encodes pub as SPKI DER wrapped in standard PEM headers.
func ExportPublicKey(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	var b strings.Builder
	if err := pem.Encode(&b, &pem.Block{Type: publicKeyPEMType, Bytes: der}); err != nil {
		return "", fmt.Errorf("encode public key pem: %w", err)
	}
	return b.String(), nil
}

// ImportPublicKey parses a PEM-encoded SPKI public key. It returns
// domain.ErrInvalidKeyFormat for an empty string, missing PEM delimiters, a
// failed DER decode, or a key that is not RSA.
func ImportPublicKey(pemStr string) (*rsa.PublicKey, error) {
	if strings.TrimSpace(pemStr) == "" {
		return nil, fmt.Errorf("%w: empty input", domain.ErrInvalidKeyFormat)
	}
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil || block.Type != publicKeyPEMType {
		return nil, fmt.Errorf("%w: missing PEM delimiters", domain.ErrInvalidKeyFormat)
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidKeyFormat, err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", domain.ErrInvalidKeyFormat)
	}
	return pub, nil
}

// Encrypt seals plaintext under pub with RSA-OAEP/SHA-256 and returns the
// ciphertext base64-encoded. Plaintexts longer than OAEPLimit are rejected
// with domain.ErrPlaintextTooLarge; file content must go through EncryptFile.
func Encrypt(plaintext []byte, pub *rsa.PublicKey) (string, error) {
	if len(plaintext) > OAEPLimit {
		return "", fmt.Errorf("%w: %d > %d bytes", domain.ErrPlaintextTooLarge, len(plaintext), OAEPLimit)
	}
	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("rsa-oaep encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt reverses Encrypt. Any failure, bad base64, padding or integrity
// mismatch, or a nil key, surfaces as domain.ErrDecryption.
func Decrypt(ciphertext string, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: missing private key", domain.ErrDecryption)
	}
	ct, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64", domain.ErrDecryption)
	}
	pt, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}
	return pt, nil
}
