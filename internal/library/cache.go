package library

import (
	"sync"
	"time"
)

// snapshotCache holds at most one list snapshot together with its expiry.
// The list operation takes no arguments, so there is nothing to key on
// beyond the single value. A mutex guards it because the HTTP layer
// serves requests concurrently.
type snapshotCache struct {
	mu         sync.Mutex
	snap       *Snapshot
	validUntil time.Time
	ttl        time.Duration
}

func newSnapshotCache(ttl time.Duration) *snapshotCache {
	return &snapshotCache{ttl: ttl}
}

// get returns the cached snapshot if one is present and not expired.
func (c *snapshotCache) get() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil || time.Now().After(c.validUntil) {
		return Snapshot{}, false
	}
	return *c.snap, true
}

// set stores a snapshot and restarts the TTL window.
func (c *snapshotCache) set(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = &snap
	c.validUntil = snap.TakenAt.Add(c.ttl)
}

// invalidate drops the cached snapshot so the next read recomputes.
func (c *snapshotCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}
