package ratelimit

import (
	"context"
	"sync"
	"time"

	"MarketTemp/internal/domain/service"
	xlogger "MarketTemp/pkg/logger"
)

// Store books grant slots for a key.
type Store interface {
	// Reserve books the next slot for key, no earlier than now and at least interval after the previous slot.
	Reserve(ctx context.Context, key string, now time.Time, interval time.Duration) (time.Time, error)
}

// Option configures Limiter.
type Option func(*Limiter)

// Limiter enforces a minimum interval between grants per key.
// It is process-wide and shared by every source client.
type Limiter struct {
	mu        sync.RWMutex
	intervals map[string]time.Duration

	store    Store
	fallback *MemoryStore
	clock    func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *xlogger.Logger
	metrics  service.Metrics
}

// New creates a limiter backed by an in-memory store unless WithStore is given.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		intervals: make(map[string]time.Duration),
		fallback:  NewMemoryStore(),
		clock:     time.Now,
		sleep:     sleepContext,
		logger:    xlogger.Nop(),
		metrics:   service.NopMetrics{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.store == nil {
		l.store = l.fallback
	}
	return l
}

// SetInterval sets the minimum spacing for key. Zero disables throttling.
func (l *Limiter) SetInterval(key string, d time.Duration) {
	l.mu.Lock()
	l.intervals[key] = d
	l.mu.Unlock()
}

// Interval returns the configured spacing for key.
func (l *Limiter) Interval(key string) time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.intervals[key]
}

// Acquire blocks until key may be used again and records the grant.
// It only returns an error when ctx is done before the slot arrives.
func (l *Limiter) Acquire(ctx context.Context, key string) error {
	interval := l.Interval(key)
	if interval <= 0 {
		return nil
	}

	now := l.clock()
	slot, err := l.store.Reserve(ctx, key, now, interval)
	if err != nil {
		l.logger.Warn("rate limit store failed, using local limiter",
			xlogger.String("key", key),
			xlogger.Error(err),
		)
		slot, _ = l.fallback.Reserve(ctx, key, now, interval)
	}

	wait := slot.Sub(now)
	if wait <= 0 {
		return nil
	}
	l.metrics.RecordRateLimitWait(key, wait)
	l.logger.Debug("rate limit wait", xlogger.String("key", key), xlogger.Duration("wait_ms", wait))
	return l.sleep(ctx, wait)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WithStore sets the shared slot store.
func WithStore(s Store) Option {
	return func(l *Limiter) {
		if s != nil {
			l.store = s
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(l *Limiter) {
		l.clock = clock
	}
}

// WithSleeper overrides how the limiter waits for a slot.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		l.sleep = sleep
	}
}

// WithLogger sets the logger.
func WithLogger(logger *xlogger.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m service.Metrics) Option {
	return func(l *Limiter) {
		if m != nil {
			l.metrics = m
		}
	}
}

// WithIntervals preloads per-key intervals.
func WithIntervals(intervals map[string]time.Duration) Option {
	return func(l *Limiter) {
		for k, d := range intervals {
			l.intervals[k] = d
		}
	}
}
