package neat

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/slices"
)

// RandomSet is an order-preserving collection of unique values that supports
// picking a random element. Uniqueness is decided by the key function.
type RandomSet[K comparable, V any] struct {
	keyOf func(V) K
	index map[K]struct{}
	data  []V
}

// NewRandomSet creates an empty set using keyOf to identify values.
func NewRandomSet[K comparable, V any](keyOf func(V) K) *RandomSet[K, V] {
	return &RandomSet[K, V]{
		keyOf: keyOf,
		index: make(map[K]struct{}),
	}
}

// Len returns the number of values in the set.
func (s *RandomSet[K, V]) Len() int {
	return len(s.data)
}

// IsEmpty reports whether the set holds no values.
func (s *RandomSet[K, V]) IsEmpty() bool {
	return len(s.data) == 0
}

// Contains reports whether a value with key k is present.
func (s *RandomSet[K, V]) Contains(k K) bool {
	_, ok := s.index[k]
	return ok
}

// Get returns a copy of the value at position i. It panics if i is out of range.
func (s *RandomSet[K, V]) Get(i int) V {
	return *s.At(i)
}

// At returns a pointer to the value at position i so it can be changed in
// place. Changing the key of the value through this pointer corrupts the set.
func (s *RandomSet[K, V]) At(i int) *V {
	if i < 0 || i >= len(s.data) {
		panic(fmt.Sprintf("random set index %d out of range [0, %d)", i, len(s.data)))
	}
	return &s.data[i]
}

// Find returns the position of the value with key k, or -1.
func (s *RandomSet[K, V]) Find(k K) int {
	if !s.Contains(k) {
		return -1
	}
	return slices.IndexFunc(s.data, func(v V) bool { return s.keyOf(v) == k })
}

// Add appends v unless a value with the same key is already present.
func (s *RandomSet[K, V]) Add(v V) bool {
	k := s.keyOf(v)
	if s.Contains(k) {
		return false
	}
	s.index[k] = struct{}{}
	s.data = append(s.data, v)
	return true
}

// AddSorted inserts v at the position that keeps the set ordered by cmp.
// The set must already be ordered by cmp.
func (s *RandomSet[K, V]) AddSorted(v V, cmp func(a, b V) int) bool {
	k := s.keyOf(v)
	if s.Contains(k) {
		return false
	}
	pos, _ := slices.BinarySearchFunc(s.data, v, cmp)
	s.index[k] = struct{}{}
	s.data = slices.Insert(s.data, pos, v)
	return true
}

// Remove deletes the value with key k, keeping the order of the rest.
func (s *RandomSet[K, V]) Remove(k K) bool {
	i := s.Find(k)
	if i < 0 {
		return false
	}
	delete(s.index, k)
	s.data = slices.Delete(s.data, i, i+1)
	return true
}

// RandomIndex returns a uniformly random position, or false if the set is empty.
func (s *RandomSet[K, V]) RandomIndex(rng *rand.Rand) (int, bool) {
	if len(s.data) == 0 {
		return 0, false
	}
	return rng.Intn(len(s.data)), true
}

// Random returns a pointer to a uniformly random value, or nil if the set is empty.
func (s *RandomSet[K, V]) Random(rng *rand.Rand) *V {
	i, ok := s.RandomIndex(rng)
	if !ok {
		return nil
	}
	return &s.data[i]
}

// Values returns a copy of the values in order.
func (s *RandomSet[K, V]) Values() []V {
	return slices.Clone(s.data)
}

// Clear removes every value.
func (s *RandomSet[K, V]) Clear() {
	s.index = make(map[K]struct{})
	s.data = nil
}

// Clone returns an independent copy of the set.
func (s *RandomSet[K, V]) Clone() *RandomSet[K, V] {
	c := &RandomSet[K, V]{
		keyOf: s.keyOf,
		index: make(map[K]struct{}, len(s.index)),
		data:  slices.Clone(s.data),
	}
	for k := range s.index {
		c.index[k] = struct{}{}
	}
	return c
}
