package ratelimiter

import (
	"context"
	"sync"
	"time"
)

const staleAfter = time.Hour

type memBucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory. Suitable for a single replica.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memBucket
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type MemoryStoreOption func(*memoryStoreOptions)

type memoryStoreOptions struct {
	cleanupInterval time.Duration
	now             func() time.Time
}

// WithCleanupInterval sets how often stale buckets are dropped. Zero disables cleanup.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(o *memoryStoreOptions) { o.cleanupInterval = d }
}

// WithMemoryClock overrides the time source, for tests.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(o *memoryStoreOptions) { o.now = now }
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	o := memoryStoreOptions{cleanupInterval: 5 * time.Minute, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	ms := &MemoryStore{
		buckets: make(map[string]*memBucket),
		now:     o.now,
		stop:    make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go ms.cleanup(o.cleanupInterval)
	}
	return ms
}

func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, ok := ms.buckets[key]
	if !ok {
		b = &memBucket{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// Capping the interval count keeps the multiplication from overflowing
	// after a bucket sat idle for a long time.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = now
	}

	b.lastAccess = now

	// Denied requests leave the balance untouched.
	remaining := b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}

	return remaining, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	delete(ms.buckets, key)
	ms.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (ms *MemoryStore) Close() {
	ms.stopOnce.Do(func() { close(ms.stop) })
}

func (ms *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.mu.Lock()
			now := ms.now()
			for key, b := range ms.buckets {
				if now.Sub(b.lastAccess) > staleAfter {
					delete(ms.buckets, key)
				}
			}
			ms.mu.Unlock()
		case <-ms.stop:
			return
		}
	}
}
