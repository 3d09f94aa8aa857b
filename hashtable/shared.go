package hashtable

import "sync"

// Shared serialises access to a Table for hosts that scan several sources
// in parallel against one table. Reads take a shared lock; inserts, and
// therefore growth, take the exclusive lock.
type Shared[V any] struct {
	mu sync.RWMutex
	t  *Table[V]
}

// NewShared creates a Shared around a new table.
func NewShared[V any](opts Options[V]) *Shared[V] {
	return &Shared[V]{t: New(opts)}
}

// Insert is Table.Insert under the exclusive lock.
func (s *Shared[V]) Insert(key string, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.Insert(key, v)
}

// Find is Table.Find under the shared lock.
func (s *Shared[V]) Find(key string) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Find(key)
}

// Replace is Table.Replace under the exclusive lock.
func (s *Shared[V]) Replace(key string, v V) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.Replace(key, v)
}

// Remove is Table.Remove under the exclusive lock.
func (s *Shared[V]) Remove(key string) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.Remove(key)
}

// Len returns the number of entries.
func (s *Shared[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Len()
}

// Each is Table.Each under the exclusive lock; the table tracks active
// iterations, so two concurrent walks would race on that counter.
func (s *Shared[V]) Each(fn func(key string, v V) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.Each(fn)
}

// Do runs fn with exclusive access to the table, for compound operations
// such as find-or-insert that must not interleave with other writers.
func (s *Shared[V]) Do(fn func(t *Table[V]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.t)
}
