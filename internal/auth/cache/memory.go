package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryDenylist is a process-local Denylist for tests and single-process
// development. It must not back a multi-process deployment: a revocation on
// one worker would be invisible to the others.
type MemoryDenylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time // token -> deadline
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{entries: make(map[string]time.Time)}
}

func (d *MemoryDenylist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[token] = time.Now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, token string) (bool, error) {
	d.mu.RLock()
	deadline, ok := d.entries[token]
	d.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if time.Now().After(deadline) {
		// Expired entry; drop it lazily.
		d.mu.Lock()
		if dl, ok := d.entries[token]; ok && time.Now().After(dl) {
			delete(d.entries, token)
		}
		d.mu.Unlock()
		return false, nil
	}

	return true, nil
}
