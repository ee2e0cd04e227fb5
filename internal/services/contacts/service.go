package contacts

import (
	"context"
	"crypto/rsa"
	"fmt"

	"veilchat/internal/domain"
)

// Service looks up recipient public keys with a session-scoped cache in front
// of the directory.
type Service struct {
	cache     domain.KeyCache
	directory domain.Directory
	provider  domain.CryptoProvider
}

// New returns a contacts service.
func New(cache domain.KeyCache, directory domain.Directory, provider domain.CryptoProvider) *Service {
	return &Service{cache: cache, directory: directory, provider: provider}
}

// Resolve returns the public key for identity. A directory miss surfaces as
// domain.ErrKeyNotFound before anything is sent; a hit is cached for the rest
// of the session.
func (s *Service) Resolve(ctx context.Context, identity domain.Identity) (*rsa.PublicKey, error) {
	if pub, ok := s.cache.Get(identity); ok {
		return pub, nil
	}
	pemStr, err := s.directory.Lookup(ctx, identity)
	if err != nil {
		return nil, err
	}
	pub, err := s.provider.ImportPublicKey(pemStr)
	if err != nil {
		return nil, fmt.Errorf("directory returned bad key for %s: %w", identity, err)
	}
	s.cache.Put(identity, pub)
	return pub, nil
}
