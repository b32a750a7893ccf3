package common

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// NewRand returns a pseudo-random source seeded with seed.
// Generation that must be reproducible takes one of these instead of the global source.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Uniform draws a float32 uniformly from [lo, hi). When lo == hi it returns lo.
func Uniform(r *rand.Rand, lo, hi float32) float32 {
	v := lo + r.Float32()*(hi-lo)
	// the sum can round up to hi when lo is large relative to hi-lo
	if v >= hi && hi > lo {
		return math32.Nextafter(hi, lo)
	}
	return v
}

// UniformVec draws each component of a 3-vector uniformly from [-half, half).
func UniformVec(r *rand.Rand, half [3]float32) [3]float32 {
	return [3]float32{
		Uniform(r, -half[0], half[0]),
		Uniform(r, -half[1], half[1]),
		Uniform(r, -half[2], half[2]),
	}
}
