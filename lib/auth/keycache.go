package auth

import (
	"crypto/rsa"
	"sync"
)

// KeyCache maps key ids to verification keys for the life of the process.
// Entries are never evicted; a key rotated upstream under an existing kid is
// only picked up by a new process.
type KeyCache struct {
	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

func NewKeyCache() *KeyCache {
	return &KeyCache{keys: make(map[string]*rsa.PublicKey)}
}

func (c *KeyCache) Get(kid string) (*rsa.PublicKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok := c.keys[kid]
	return key, ok
}

// Put stores key under kid. An existing entry is kept.
func (c *KeyCache) Put(kid string, key *rsa.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.keys[kid]; !ok {
		c.keys[kid] = key
	}
}

func (c *KeyCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}
