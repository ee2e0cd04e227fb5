package crypto

import (
	"crypto/rsa"

	"veilchat/internal/domain"
)

// Provider adapts the package-level primitives to domain.CryptoProvider.
type Provider struct{}

// NewProvider returns the local crypto capability.
func NewProvider() Provider { return Provider{} }

func (Provider) GenerateKeyPair() (*rsa.PublicKey, *rsa.PrivateKey, error) {
	return GenerateKeyPair()
}

func (Provider) ExportPublicKey(pub *rsa.PublicKey) (string, error) {
	return ExportPublicKey(pub)
}

func (Provider) ImportPublicKey(pemStr string) (*rsa.PublicKey, error) {
	return ImportPublicKey(pemStr)
}

func (Provider) Encrypt(plaintext []byte, pub *rsa.PublicKey) (string, error) {
	return Encrypt(plaintext, pub)
}

func (Provider) Decrypt(ciphertext string, priv *rsa.PrivateKey) ([]byte, error) {
	return Decrypt(ciphertext, priv)
}

func (Provider) EncryptFile(data []byte, pub *rsa.PublicKey) (sealedFile, sealedKey string, err error) {
	return EncryptFile(data, pub)
}

func (Provider) DecryptFile(sealedFile, sealedKey string, priv *rsa.PrivateKey) ([]byte, error) {
	return DecryptFile(sealedFile, sealedKey, priv)
}

// Compile-time assertion that Provider implements domain.CryptoProvider.
var _ domain.CryptoProvider = Provider{}
