// Package conv provides checked integer narrowing for the automaton tables.
//
// Tables are built with int everywhere and narrowed only at the boundaries:
// sparse-set indices (uint32) and the binary format (int32). An out-of-range
// value there means a table grew past what the format can describe, which is a
// programming error, so these helpers panic instead of truncating.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// uint comparison avoids overflow on 32-bit platforms
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToInt32 converts n to int32.
// Panics if n is outside [math.MinInt32, math.MaxInt32].
//
//go:inline
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}

// IntsToInt32s narrows every element of s.
func IntsToInt32s(s []int) []int32 {
	out := make([]int32, len(s))
	for i, v := range s {
		out[i] = IntToInt32(v)
	}
	return out
}
