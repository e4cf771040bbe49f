// Package cache provides the optional result cache consumed by the
// analytics pipeline. The pipeline stays correct with no cache at all: the
// cold path always recomputes.
package cache

import (
	"sync"
	"time"
)

// Cache is the minimal get/set contract the pipeline depends on.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process TTL cache.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]entry)}
}

// Get returns the cached value for key if it has not expired.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.items[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

// Sweep drops expired entries; wired to a periodic job so the map does not
// grow with dead keys.
func (m *Memory) Sweep() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for k, e := range m.items {
		if now.After(e.expiresAt) {
			delete(m.items, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
