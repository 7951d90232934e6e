package random

import (
	"fmt"
	"io"
	"math"
	"math/rand"
)

const (
	DefaultMin   = 1
	DefaultMax   = 100
	DefaultCount = 1
)

// Generate returns a number in [min, max]. The range may span the whole
// int domain.
func Generate(r *rand.Rand, min, max int) int {
	span := uint64(max) - uint64(min)
	var n uint64
	switch {
	case span == math.MaxUint64:
		return int(r.Uint64())
	case span < math.MaxInt64:
		n = uint64(r.Int63n(int64(span + 1)))
	default:
		n = r.Uint64() % (span + 1)
	}
	return int(uint64(min) + n)
}

// Run prints count numbers drawn from [min, max] to w.
func Run(w io.Writer, r *rand.Rand, min, max, count int) error {
	if min > max {
		return fmt.Errorf("min %d is greater than max %d", min, max)
	}
	if count < 0 {
		return fmt.Errorf("count %d is negative", count)
	}
	if _, err := fmt.Fprintf(w, "Generating %d random number(s) between %d and %d:\n", count, min, max); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if _, err := fmt.Fprintf(w, "Random number %d: %d\n", i+1, Generate(r, min, max)); err != nil {
			return err
		}
	}
	return nil
}
