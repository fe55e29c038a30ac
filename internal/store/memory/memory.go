// Package memory implements the store contract in process memory. Entries
// expire lazily on read and proactively via a background sweep, so storage
// stays bounded even for keys never read again.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/chowgpt/chowgo/internal/domain"
	"github.com/chowgpt/chowgo/internal/metrics"
	"github.com/chowgpt/chowgo/internal/store"
)

// DefaultSweepInterval is how often the background sweep scans all keys.
const DefaultSweepInterval = time.Minute

// Config holds memory store settings.
type Config struct {
	// SweepInterval overrides DefaultSweepInterval. Negative disables the
	// background sweep entirely (tests call Sweep directly).
	SweepInterval time.Duration
	// Clock overrides the wall clock for expiry checks.
	Clock domain.Clock
}

type entry struct {
	value     []byte
	createdAt time.Time
	ttl       time.Duration
}

// Store is an in-memory TTL key/value store.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   domain.Clock
	done    chan struct{}
	once    sync.Once
}

var _ store.Store = (*Store)(nil)

// NewStore creates a memory store and starts its background sweep.
func NewStore(cfg Config) *Store {
	if cfg.Clock == nil {
		cfg.Clock = domain.SystemClock()
	}
	s := &Store{
		entries: make(map[string]entry),
		clock:   cfg.Clock,
		done:    make(chan struct{}),
	}

	interval := cfg.SweepInterval
	if interval == 0 {
		interval = DefaultSweepInterval
	}
	if interval > 0 {
		go s.sweepLoop(interval)
	}
	return s
}

// Get returns the value at key, or store.ErrKeyNotFound if the key is
// absent or its TTL has elapsed. Expired entries are deleted on read.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		metrics.StoreOperationsTotal.WithLabelValues(store.OpGet, "miss").Inc()
		return nil, store.ErrKeyNotFound
	}
	if s.expired(e) {
		delete(s.entries, key)
		metrics.StoreOperationsTotal.WithLabelValues(store.OpGet, "expired").Inc()
		return nil, store.ErrKeyNotFound
	}

	metrics.StoreOperationsTotal.WithLabelValues(store.OpGet, "hit").Inc()
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores value at key, stamping the current time. A non-positive ttl
// means the entry never expires.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	s.entries[key] = entry{value: v, createdAt: s.clock.Now(), ttl: ttl}
	metrics.StoreOperationsTotal.WithLabelValues(store.OpSet, "ok").Inc()
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	metrics.StoreOperationsTotal.WithLabelValues(store.OpDelete, "ok").Inc()
	return nil
}

// Sweep scans all keys and evicts expired entries. Returns the number of
// evictions.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, key)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.StoreEvictionsTotal.Add(float64(evicted))
	}
	return evicted
}

// Len returns the number of live plus not-yet-swept entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the background sweep.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) expired(e entry) bool {
	return e.ttl > 0 && s.clock.Now().Sub(e.createdAt) >= e.ttl
}

func (s *Store) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
