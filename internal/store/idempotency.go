package store

import (
	"context"
	"sync"
	"time"
)

// MemoryIdempotency maps idempotency keys to values inside one process
type MemoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]idemEntry
	now  func() time.Time
}

type idemEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryIdempotency creates an empty key cache
func NewMemoryIdempotency() *MemoryIdempotency {
	return &MemoryIdempotency{
		keys: make(map[string]idemEntry),
		now:  time.Now,
	}
}

// Claim stores value under key if the key is free and reports true. If the key
// is already held it returns the held value and false. A zero ttl never expires.
func (m *MemoryIdempotency) Claim(_ context.Context, key, value string, ttl time.Duration) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.live(key); ok {
		return e.value, false, nil
	}
	m.keys[key] = idemEntry{value: value, expiresAt: m.expiry(ttl)}
	return "", true, nil
}

// Set overwrites the value held under key
func (m *MemoryIdempotency) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.keys[key] = idemEntry{value: value, expiresAt: m.expiry(ttl)}
	return nil
}

// Release frees key
func (m *MemoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.keys, key)
	return nil
}

func (m *MemoryIdempotency) live(key string) (idemEntry, bool) {
	e, ok := m.keys[key]
	if !ok {
		return idemEntry{}, false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.keys, key)
		return idemEntry{}, false
	}
	return e, true
}

func (m *MemoryIdempotency) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}
