// Package rand generates the sample payloads the tours write: sensor noise,
// synthetic log rows and stand-in embedding vectors.
//
// A Rand is safe for concurrent use. Seeding it with a fixed value makes the
// generated data reproducible, which the tests rely on.
package rand

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

const bytesInUint64 = 8

type Rand struct {
	mut sync.Mutex
	rng *rand.Rand
}

// New returns a generator seeded from crypto/rand.
func New() *Rand {
	seed := make([]byte, bytesInUint64*2)

	if _, err := cryptorand.Read(seed); err != nil {
		panic("unreachable")
	}

	return NewSeeded(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	)
}

// NewSeeded returns a deterministic generator.
func NewSeeded(seed1, seed2 uint64) *Rand {
	return &Rand{
		//nolint:gosec // sample data, no security required
		rng: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// IntRange returns a uniform integer in [lo, hi). It panics if hi <= lo.
func (r *Rand) IntRange(lo, hi int) int {
	r.mut.Lock()
	defer r.mut.Unlock()

	return lo + r.rng.IntN(hi-lo)
}

// Norm returns a normally distributed value with the given mean and
// standard deviation.
func (r *Rand) Norm(mean, stddev float64) float64 {
	r.mut.Lock()
	defer r.mut.Unlock()

	return mean + r.rng.NormFloat64()*stddev
}

// Float32s returns n values uniform in [0, 1).
func (r *Rand) Float32s(n int) []float32 {
	out := make([]float32, n)

	r.mut.Lock()
	for i := range out {
		out[i] = r.rng.Float32()
	}
	r.mut.Unlock()

	return out
}

// Choice returns a uniformly chosen element of items. It panics on an
// empty slice.
func Choice[T any](r *Rand, items []T) T {
	return items[r.IntRange(0, len(items))]
}
