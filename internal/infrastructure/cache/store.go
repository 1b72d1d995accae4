// Package cache provides in-process memoization for catalog metadata.
// Entries are immutable once stored; the only invalidation is Reset (explicit
// re-fetch) or process restart.
package cache

import "sync"

// Store is a thread-safe memoization map keyed by dataflow code (or any other
// string key). Values must be treated as immutable by callers.
//
// GetOrLoad does not serialize concurrent first loads for the same key: two
// callers racing on an unpopulated key may both invoke the loader, and the
// last write wins. Callers needing single-flight behavior must serialize
// first access externally.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// NewStore creates an empty store.
func NewStore[V any]() *Store[V] {
	return &Store[V]{entries: make(map[string]V)}
}

// Get returns the cached value for key, if present.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Put stores a value for key, replacing any previous entry.
func (s *Store[V]) Put(key string, value V) {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, invoking load on a miss and
// memoizing its result. Errors are not cached.
func (s *Store[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	s.Put(key, v)
	return v, nil
}

// Delete removes the entry for key.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Reset drops all entries.
func (s *Store[V]) Reset() {
	s.mu.Lock()
	s.entries = make(map[string]V)
	s.mu.Unlock()
}

// Len returns the number of cached entries.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the cached keys in unspecified order.
func (s *Store[V]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}
