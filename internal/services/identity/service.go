package identity

import (
	"context"
	"crypto/rsa"
	"fmt"
	"unicode"

	"veilchat/internal/crypto"
	"veilchat/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service manages the local key pair using a backing vault and publishes the
// public half to the directory.
type Service struct {
	vault     domain.KeyVault
	provider  domain.CryptoProvider
	directory domain.Directory
}

// New returns an identity service backed by the given vault, crypto provider
// and directory client.
func New(vault domain.KeyVault, provider domain.CryptoProvider, directory domain.Directory) *Service {
	return &Service{vault: vault, provider: provider, directory: directory}
}

// EnsureIdentity runs the key setup sequence once per session: generate a key
// pair if the vault is empty, then upload the public key to the directory.
// It returns the key fingerprint and whether a new pair was created.
//
// The sequence is deliberately explicit: generation and upload either both
// succeed or the caller sees which step failed.
func (s *Service) EnsureIdentity(ctx context.Context, passphrase string) (fp string, created bool, err error) {
	has, err := s.vault.HasKeyPair()
	if err != nil {
		return "", false, err
	}

	var priv *rsa.PrivateKey
	if has {
		priv, err = s.vault.LoadKeyPair(passphrase)
		if err != nil {
			return "", false, err
		}
	} else {
		if !isSecurePassphrase(passphrase) {
			return "", false, ErrWeakPassphrase
		}
		_, priv, err = s.provider.GenerateKeyPair()
		if err != nil {
			return "", false, err
		}
		if err := s.vault.SaveKeyPair(passphrase, priv); err != nil {
			return "", false, err
		}
		created = true
	}

	pemStr, err := s.provider.ExportPublicKey(&priv.PublicKey)
	if err != nil {
		return "", created, err
	}
	if err := s.directory.Upload(ctx, pemStr); err != nil {
		return "", created, fmt.Errorf("publish public key: %w", err)
	}
	return crypto.Fingerprint(&priv.PublicKey), created, nil
}

// LoadKeyPair unseals and returns the local private key.
func (s *Service) LoadKeyPair(passphrase string) (*rsa.PrivateKey, error) {
	return s.vault.LoadKeyPair(passphrase)
}

// Fingerprint returns a short fingerprint of the local public key.
func (s *Service) Fingerprint(passphrase string) (string, error) {
	priv, err := s.vault.LoadKeyPair(passphrase)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(&priv.PublicKey), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
