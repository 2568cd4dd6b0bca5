// Package population generates and loads tag populations for the Query Tree simulator.
package population

import (
	"fmt"
	"math/rand"

	"github.com/inference-sim/qtree-sim/sim"
)

// denseSpaceLimit bounds the identifier space that may be materialized for a
// shuffle when the request covers more than half of it.
const denseSpaceLimit = 1 << 20

// Generate draws n distinct identifiers of the given width uniformly at
// random without replacement from [0, 2^bits). Deterministic given rng state.
func Generate(rng *rand.Rand, n, bits int) (*sim.Population, error) {
	if bits < 1 || bits > 64 {
		return nil, fmt.Errorf("bits must be in [1, 64], got %d", bits)
	}
	if n < 0 {
		return nil, fmt.Errorf("tag count must be non-negative, got %d", n)
	}
	if bits < 64 && uint64(n) > uint64(1)<<bits {
		return nil, fmt.Errorf("cannot draw %d unique tags from a %d-bit space", n, bits)
	}

	var values []uint64
	if bits < 64 && uint64(1)<<bits <= denseSpaceLimit && uint64(n)*2 > uint64(1)<<bits {
		values = sampleDense(rng, n, int(uint64(1)<<bits))
	} else {
		values = sampleSparse(rng, n, bits)
	}

	ids := make([]sim.Identifier, n)
	for i, v := range values {
		ids[i] = sim.FormatIdentifier(v, bits)
	}
	return sim.NewPopulation(ids)
}

// sampleSparse rejects repeats; expected draws stay below 2n when n is at
// most half the space.
func sampleSparse(rng *rand.Rand, n, bits int) []uint64 {
	seen := make(map[uint64]struct{}, n)
	out := make([]uint64, 0, n)
	for len(out) < n {
		v := rng.Uint64()
		if bits < 64 {
			v &= (uint64(1) << bits) - 1
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// sampleDense runs a partial Fisher-Yates shuffle over the whole space.
func sampleDense(rng *rand.Rand, n, space int) []uint64 {
	all := make([]uint64, space)
	for i := range all {
		all[i] = uint64(i)
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(space-i)
		all[i], all[j] = all[j], all[i]
	}
	return all[:n]
}
