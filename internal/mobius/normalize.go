package mobius

import "math/bits"

// NearestPowerOfTwo rounds n to the closest power of two. Ties round up.
func NearestPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	lower := 1 << (bits.Len(uint(n)) - 1)
	if lower == n {
		return n
	}
	upper := lower << 1
	if n-lower < upper-n {
		return lower
	}
	return upper
}

// NormalizeGridSize rounds a requested grid size to a power of two no
// smaller than MinGridSize.
func NormalizeGridSize(n int) int {
	return max(NearestPowerOfTwo(n), MinGridSize)
}

// NormalizeStride rounds a requested tile stride to a power of two no
// smaller than MinStride.
func NormalizeStride(n int) int {
	return max(NearestPowerOfTwo(n), MinStride)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
