package cache

import (
	"context"
	"sync"
	"time"
)

const (
	defaultTTL        = 5 * time.Minute
	defaultMaxEntries = 1000
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a bounded in-process cache with per-entry TTL and FIFO
// eviction once the capacity is reached.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []string
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// MemoryOption applies a configuration option to the Memory cache.
type MemoryOption func(*Memory)

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithMaxEntries overrides the capacity bound.
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates a Memory cache with the default TTL and capacity.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries:    make(map[string]entry),
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached value when present and unexpired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value under key, evicting the oldest insertion when full.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists {
		if len(m.entries) >= m.maxEntries {
			m.evictOldest()
		}
		m.order = append(m.order, key)
	}
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Close empties the cache.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	m.order = nil
	return nil
}

// evictOldest drops insertion-order entries until a slot frees up.
// Order entries whose key was already expired away are skipped.
func (m *Memory) evictOldest() {
	for len(m.order) > 0 {
		oldest := m.order[0]
		m.order = m.order[1:]
		if _, ok := m.entries[oldest]; ok {
			delete(m.entries, oldest)
			return
		}
	}
}
