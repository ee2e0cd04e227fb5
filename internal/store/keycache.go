package store

import (
	"crypto/rsa"
	"sync"

	"veilchat/internal/domain"
)

// KeyCache retains recipient public keys resolved from the directory for the
// lifetime of the session. There is no invalidation; a re-published key is
// only picked up by a fresh session.
type KeyCache struct {
	mu   sync.RWMutex
	keys map[domain.Identity]*rsa.PublicKey
}

// NewKeyCache returns an empty session cache.
func NewKeyCache() *KeyCache {
	return &KeyCache{keys: make(map[domain.Identity]*rsa.PublicKey)}
}

func (c *KeyCache) Get(identity domain.Identity) (*rsa.PublicKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pub, ok := c.keys[identity]
	return pub, ok
}

func (c *KeyCache) Put(identity domain.Identity, pub *rsa.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[identity] = pub
}

// Compile-time assertion that KeyCache implements domain.KeyCache.
var _ domain.KeyCache = (*KeyCache)(nil)
