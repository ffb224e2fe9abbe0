// Package kv provides a generic thread-safe key-value store with an optional
// capacity bound, used for memoizing pure computations.
package kv

import "sync"

// Store is a thread-safe generic key-value store.
//
// A store created with a positive capacity evicts its oldest entry (by first
// insertion) when a new key would exceed the capacity. Overwriting an
// existing key does not change its age.
type Store[K comparable, V any] struct {
	mu       sync.RWMutex
	data     map[K]V
	order    []K // insertion order, oldest first; only tracked when bounded
	capacity int
	hits     int
	misses   int
}

// New creates an unbounded key-value store.
func New[K comparable, V any]() *Store[K, V] {
	return NewBounded[K, V](0)
}

// NewBounded creates a store holding at most capacity entries.
// A capacity of zero or less means unbounded.
func NewBounded[K comparable, V any](capacity int) *Store[K, V] {
	return &Store[K, V]{
		data:     make(map[K]V),
		capacity: max(capacity, 0),
	}
}

// Get retrieves a value by key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	if ok {
		s.hits++
	} else {
		s.misses++
	}
	return val, ok
}

// Set stores a value by key, evicting the oldest entry if the store is full.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists && s.capacity > 0 {
		for len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.data, oldest)
		}
		s.order = append(s.order, key)
	}
	s.data[key] = value
}

// Delete removes a key from the store.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear removes all entries from the store and resets its statistics.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[K]V)
	s.order = nil
	s.hits, s.misses = 0, 0
}

// Len returns the number of items in the store.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Stats returns the number of Get calls that found and missed a key.
func (s *Store[K, V]) Stats() (hits, misses int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits, s.misses
}
