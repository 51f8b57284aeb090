package checkout

import (
	"context"
	"sync"
	"time"
)

// Deduplicator guards against delivering the same order twice.
// Telegram may redeliver an update, and customers double-tap the web app button.
type Deduplicator interface {
	// Claim returns true if key was not claimed yet and claims it for ttl
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops a claim so the order can be submitted again
	Release(ctx context.Context, key string) error
}

// sweepInterval bounds how often Claim drops expired entries
const sweepInterval = time.Minute

// MemoryDeduplicator keeps claims in process memory.
// Used when redis is not configured.
type MemoryDeduplicator struct {
	mu        sync.Mutex
	claims    map[string]time.Time // key -> expiry
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryDeduplicator creates an empty in-memory guard
func NewMemoryDeduplicator() *MemoryDeduplicator {
	return &MemoryDeduplicator{
		claims: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (d *MemoryDeduplicator) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if now.Sub(d.lastSweep) >= sweepInterval {
		d.sweep(now)
	}

	if expiry, ok := d.claims[key]; ok && now.Before(expiry) {
		return false, nil
	}
	d.claims[key] = now.Add(ttl)
	return true, nil
}

func (d *MemoryDeduplicator) Release(_ context.Context, key string) error {
	d.mu.Lock()
	delete(d.claims, key)
	d.mu.Unlock()
	return nil
}

// ActiveClaims returns the number of unexpired claims
func (d *MemoryDeduplicator) ActiveClaims(_ context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sweep(d.now())
	return len(d.claims), nil
}

func (d *MemoryDeduplicator) sweep(now time.Time) {
	d.lastSweep = now
	for key, expiry := range d.claims {
		if !now.Before(expiry) {
			delete(d.claims, key)
		}
	}
}
