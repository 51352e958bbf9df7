package uuid

import (
	"fmt"
	"math/rand/v2"
)

// MaxRandomBits is the widest value RandomBits can produce. A float64
// carries 53 bits of mantissa, so wider draws would not be uniform.
const MaxRandomBits = 53

// RandomSource supplies uniformly distributed floats in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
//
// Implementations used by a shared Generator must be safe for concurrent use.
type RandomSource interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// DefaultRandomSource draws from the goroutine-safe top-level math/rand/v2 generator.
// It is not a cryptographically secure source.
var DefaultRandomSource RandomSource = globalRandom{}

// RandomBits returns an unsigned width-bit random integer, 0 <= n < 2^width.
// Widths above 30 are composed from two draws so that scaling never exceeds
// the precision of a single float64 multiplication.
func RandomBits(src RandomSource, width int) (uint64, error) {
	switch {
	case width < 0 || width > MaxRandomBits:
		return 0, fmt.Errorf("%w: %d", ErrInvalidBitWidth, width)
	case width <= 30:
		return scaled(src, width), nil
	default:
		low := scaled(src, 30)
		high := scaled(src, width-30)
		return high<<30 | low, nil
	}
}

// scaled maps a single draw onto [0, 2^width).
func scaled(src RandomSource, width int) uint64 {
	n := uint64(src.Float64() * float64(uint64(1)<<width))
	// guard against sources that return exactly 1.0
	if limit := uint64(1)<<width - 1; n > limit {
		n = limit
	}
	return n
}

// mustRandomBits is used with the fixed widths of the generators, which are
// always within range.
func mustRandomBits(src RandomSource, width int) uint64 {
	n, err := RandomBits(src, width)
	if err != nil {
		panic(err)
	}
	return n
}
