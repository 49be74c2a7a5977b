// Package sparse provides a sparse set of small non-negative integers.
//
// The set supports O(1) insertion, membership testing and clearing while
// keeping the members in insertion order. The matcher uses it for the active
// combined-DFA states and raw pending states of phase 1, where iteration order
// decides candidate order and Clear runs once per input position.
package sparse

import "github.com/coregx/multiregex/internal/conv"

// Set is a set of ints in [0, capacity).
// It maintains both a sparse array (value -> index in dense) and a dense
// array holding the members in insertion order.
type Set struct {
	sparse []uint32
	dense  []int
}

// New creates a set able to hold values in [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]int, 0, capacity),
	}
}

// Capacity returns the exclusive upper bound of storable values.
func (s *Set) Capacity() int {
	return len(s.sparse)
}

// Resize clears the set and changes its capacity.
func (s *Set) Resize(capacity int) {
	if capacity <= len(s.sparse) {
		s.sparse = s.sparse[:capacity]
	} else {
		s.sparse = make([]uint32, capacity)
	}
	s.dense = s.dense[:0]
}

// Insert adds value and reports whether it was newly added.
// Panics if value is outside [0, Capacity()).
func (s *Set) Insert(value int) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = conv.IntToUint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value int) bool {
	if value < 0 || value >= len(s.sparse) {
		return false
	}
	idx := int(s.sparse[value])
	return idx < len(s.dense) && s.dense[idx] == value
}

// Clear removes all elements in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of elements.
func (s *Set) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no elements.
func (s *Set) IsEmpty() bool {
	return len(s.dense) == 0
}

// Values returns the members in insertion order.
// The slice is valid until the next mutation.
func (s *Set) Values() []int {
	return s.dense
}
