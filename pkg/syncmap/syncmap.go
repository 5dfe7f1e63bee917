package syncmap

import (
	"sort"
	"sync"

	"go.uber.org/atomic"
)

// Map is a typed sync.Map that keeps a count of its entries.
type Map[K comparable, V any] struct {
	m     sync.Map
	count atomic.Int64
}

// Store sets the value for key, replacing any previous value.
func (m *Map[K, V]) Store(key K, value V) {
	if _, loaded := m.m.Swap(key, value); !loaded {
		m.count.Inc()
	}
}

func (m *Map[K, V]) Load(key K) (V, bool) {
	value, ok := m.m.Load(key)
	if !ok {
		var zero V

		return zero, false
	}

	return value.(V), true
}

// LoadOrStore returns the existing value for key if present. Otherwise it
// stores value and returns it with loaded false.
func (m *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	existing, loaded := m.m.LoadOrStore(key, value)
	if !loaded {
		m.count.Inc()
	}

	return existing.(V), loaded
}

func (m *Map[K, V]) Delete(key K) {
	m.LoadAndDelete(key)
}

func (m *Map[K, V]) LoadAndDelete(key K) (V, bool) {
	value, loaded := m.m.LoadAndDelete(key)
	if !loaded {
		var zero V

		return zero, false
	}

	m.count.Dec()

	return value.(V), true
}

// Range calls f for each entry until f returns false.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}

func (m *Map[K, V]) Count() int {
	return int(m.count.Load())
}

// Sorted returns a snapshot of the values ordered by less on their keys.
func (m *Map[K, V]) Sorted(less func(a, b K) bool) []V {
	type entry struct {
		key   K
		value V
	}

	entries := make([]entry, 0, m.Count())

	m.Range(func(key K, value V) bool {
		entries = append(entries, entry{key, value})

		return true
	})

	sort.Slice(entries, func(i, j int) bool {
		return less(entries[i].key, entries[j].key)
	})

	values := make([]V, len(entries))

	for i, e := range entries {
		values[i] = e.value
	}

	return values
}
