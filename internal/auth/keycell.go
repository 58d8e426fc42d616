package auth

import (
	"sync/atomic"

	"sorawallet/internal/domain"
)

// KeyCell holds the keypair of the active account. Readers never block;
// Install and Clear swap the whole value.
type KeyCell struct {
	p atomic.Pointer[domain.KeyPair]
}

// NewKeyCell returns an empty cell.
func NewKeyCell() *KeyCell { return &KeyCell{} }

// Install makes a copy of keys the active keypair.
func (c *KeyCell) Install(keys domain.KeyPair) {
	kp := keys.Clone()
	c.p.Store(&kp)
}

// Clear removes the active keypair. Later requests go out unsigned.
func (c *KeyCell) Clear() { c.p.Store(nil) }

// Load returns the active keypair or nil. The result is shared and must not
// be modified.
func (c *KeyCell) Load() *domain.KeyPair { return c.p.Load() }
