package inprocess

import (
	"context"
	"sync"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/ports"
)

// Deduplicator implements ports.TaskDeduplicator with an expiring map.
// Expired claims are swept lazily on Claim.
type Deduplicator struct {
	mu      sync.Mutex
	claims  map[kernel.UUID]time.Time
	clock   ports.Clock
	nextGC  time.Time
	gcEvery time.Duration
}

func NewDeduplicator(clock ports.Clock) *Deduplicator {
	return &Deduplicator{
		claims:  make(map[kernel.UUID]time.Time),
		clock:   clock,
		gcEvery: time.Minute,
	}
}

func (d *Deduplicator) Claim(_ context.Context, taskID kernel.UUID, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	d.sweep(now)

	if expiresAt, ok := d.claims[taskID]; ok && now.Before(expiresAt) {
		return false, nil
	}
	d.claims[taskID] = now.Add(ttl)
	return true, nil
}

func (d *Deduplicator) Complete(_ context.Context, taskID kernel.UUID, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.claims[taskID] = d.clock.Now().Add(ttl)
	return nil
}

func (d *Deduplicator) Release(_ context.Context, taskID kernel.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.claims, taskID)
	return nil
}

// Len reports the number of live claims.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.clock.Now()
	n := 0
	for _, expiresAt := range d.claims {
		if now.Before(expiresAt) {
			n++
		}
	}
	return n
}

func (d *Deduplicator) sweep(now time.Time) {
	if now.Before(d.nextGC) {
		return
	}
	for id, expiresAt := range d.claims {
		if !now.Before(expiresAt) {
			delete(d.claims, id)
		}
	}
	d.nextGC = now.Add(d.gcEvery)
}
