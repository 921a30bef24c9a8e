package auth

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Credentials holds the active API key and the single authorization
// flag shared across calls. The flag moves from authorized to
// unauthorized only on a classified credential mismatch, and back only
// through Select. Select grants without re-verification, so the next
// call is not raced by a check-then-use window.
type Credentials struct {
	mu         sync.RWMutex
	key        string
	authorized atomic.Bool
}

// New seeds the store. A non-empty initial key counts as a completed
// credential selection.
func New(initialKey string) *Credentials {
	c := &Credentials{}
	if strings.TrimSpace(initialKey) != "" {
		c.Select(initialKey)
	}
	return c
}

// APIKey implements the gemini credential source.
func (c *Credentials) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.key
}

// Select stores a newly chosen credential and marks it authorized.
func (c *Credentials) Select(key string) {
	key = strings.TrimSpace(key)

	c.mu.Lock()
	c.key = key
	c.mu.Unlock()

	c.authorized.Store(key != "")
}

// Revoke flips to unauthorized. There is no way back except Select.
func (c *Credentials) Revoke() {
	c.authorized.Store(false)
}

func (c *Credentials) Authorized() bool {
	return c.authorized.Load()
}

func (c *Credentials) HasSelectedCredential() bool {
	return c.APIKey() != ""
}
