package user

import (
	"context"
	"sync"
	"time"
)

// Denylist records revoked token ids until the token would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type InMemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewInMemoryDenylist() *InMemoryDenylist {
	return &InMemoryDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *InMemoryDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[jti] = until
	return nil
}

func (d *InMemoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.entries[jti]
	if !ok {
		return false, nil
	}
	if !until.IsZero() && d.now().After(until) {
		delete(d.entries, jti)
		return false, nil
	}
	return true, nil
}
