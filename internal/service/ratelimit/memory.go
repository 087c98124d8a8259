package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type memoryEntry struct {
	limiter  *rate.Limiter
	interval time.Duration
	seen     time.Time
	last     time.Time
}

// MemoryStore keeps one single-token limiter per key in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Reserve(_ context.Context, key string, now time.Time, interval time.Duration) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.interval != interval {
		e = &memoryEntry{limiter: rate.NewLimiter(rate.Every(interval), 1), interval: interval}
		s.entries[key] = e
	}

	// Callers read the clock before taking the lock; never book against an earlier time than already seen.
	if now.Before(e.seen) {
		now = e.seen
	}
	e.seen = now

	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return now, fmt.Errorf("reserve %s: limiter refused", key)
	}
	slot := now.Add(r.DelayFrom(now))
	// The token bucket works in float seconds and can land a hair early; spacing is enforced on exact times.
	if !e.last.IsZero() {
		if floor := e.last.Add(interval); slot.Before(floor) {
			slot = floor
		}
	}
	e.last = slot
	return slot, nil
}
