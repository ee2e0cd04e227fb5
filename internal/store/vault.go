package store

import (
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"path/filepath"
	"sync"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
	"veilchat/internal/util/memzero"
)

const vaultFilename = "keypair.enc"

// FileVault persists the local RSA private key to disk, PKCS#8-encoded and
// sealed under a passphrase. It is written once at key-generation time and
// read on every decrypt.
type FileVault struct {
	dir string
	mu  sync.Mutex
}

// NewFileVault returns a FileVault rooted at dir.
func NewFileVault(dir string) *FileVault { return &FileVault{dir: dir} }

// SaveKeyPair seals the private key under the passphrase and writes it with
// owner-only permissions.
func (s *FileVault) SaveKeyPair(passphrase string, priv *rsa.PrivateKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}
	defer memzero.Zero(der)

	blob, err := crypto.SealWithPassphrase(passphrase, der)
	if err != nil {
		return fmt.Errorf("seal private key: %w", err)
	}
	return writeFile(filepath.Join(s.dir, vaultFilename), blob, 0o600)
}

// LoadKeyPair reads and unseals the private key.
func (s *FileVault) LoadKeyPair(passphrase string) (*rsa.PrivateKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok, err := readFile(filepath.Join(s.dir, vaultFilename))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no key material in vault", domain.ErrDecryption)
	}
	der, err := crypto.OpenWithPassphrase(passphrase, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: unseal vault: %v", domain.ErrDecryption, err)
	}
	defer memzero.Zero(der)

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	priv, ok2 := key.(*rsa.PrivateKey)
	if !ok2 {
		return nil, fmt.Errorf("vault holds a non-RSA key")
	}
	return priv, nil
}

// HasKeyPair reports whether key material exists on disk.
func (s *FileVault) HasKeyPair() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, err := readFile(filepath.Join(s.dir, vaultFilename))
	return ok, err
}

// Compile-time assertion that FileVault implements domain.KeyVault.
var _ domain.KeyVault = (*FileVault)(nil)
