package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/qtree-sim/sim/trace"
)

func TestResolveAll_ThreeTagExample(t *testing.T) {
	// GIVEN {00000000, 00000001, 00000011}
	ids := []Identifier{"00000000", "00000001", "00000011"}

	// WHEN resolved
	queries, err := ResolveAll(ids)

	// THEN root, 0000001 (one tag), 0000000 (collision), 00000001, 00000000
	require.NoError(t, err)
	assert.Equal(t, 5, queries)
}

func TestResolution_ThreeTagExample_QuerySequence(t *testing.T) {
	pop, err := ParsePopulation([]string{"00000000", "00000001", "00000011"})
	require.NoError(t, err)
	tr := trace.NewTrace()

	res := NewResolution(pop, tr).Run()

	var prefixes []string
	for _, q := range tr.Queries {
		prefixes = append(prefixes, q.Prefix)
	}
	assert.Equal(t, []string{"", "0000001", "0000000", "00000001", "00000000"}, prefixes)
	assert.Equal(t, []int{-1, 2, -1, 1, 0}, []int{
		tr.Queries[0].Resolved, tr.Queries[1].Resolved, tr.Queries[2].Resolved,
		tr.Queries[3].Resolved, tr.Queries[4].Resolved,
	})
	assert.Equal(t, RunResult{
		Tags: 3, Bits: 8, Queries: 5, IdleQueries: 0, Identified: 3,
		Collisions: 2, MaxPrefixLen: 8, MaxFrontier: 2,
	}, res)
}

func TestResolveAll_SingleTag_OneQuery(t *testing.T) {
	queries, err := ResolveAll([]Identifier{"10110011001100110011001100110011"})
	require.NoError(t, err)
	assert.Equal(t, 1, queries)
}

func TestResolveAll_EmptyPopulation_RootQueryStillIssued(t *testing.T) {
	queries, err := ResolveAll(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, queries)

	pop, err := NewPopulation(nil)
	require.NoError(t, err)
	res := Resolve(pop)
	assert.Equal(t, 1, res.IdleQueries)
}

func TestResolveAll_InvalidPopulation_FailsBeforeRun(t *testing.T) {
	_, err := ResolveAll([]Identifier{"0101", "0101"})
	assert.ErrorIs(t, err, ErrInvalidPopulation)

	_, err = ResolveAll([]Identifier{"0101", "01"})
	assert.ErrorIs(t, err, ErrInvalidPopulation)
}

func TestResolveAll_FullSpace(t *testing.T) {
	// GIVEN every 3-bit identifier
	var ids []Identifier
	for v := uint64(0); v < 8; v++ {
		ids = append(ids, FormatIdentifier(v, 3))
	}

	// WHEN resolved
	queries, err := ResolveAll(ids)

	// THEN the full binary trie is walked: 1 + 2 + 4 + 8 nodes
	require.NoError(t, err)
	assert.Equal(t, 15, queries)
}

func TestResolve_RandomPopulations_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(64)
		bits := 8 + rng.Intn(25)
		pop := randomPopulation(t, rng, n, bits)
		tr := trace.NewTrace()

		res := NewResolution(pop, tr).Run()

		// every tag identified by exactly one singleton query
		cov := trace.CoverageOf(tr, n)
		require.True(t, cov.Complete(), "trial %d: coverage %+v", trial, cov)
		assert.Equal(t, n, res.Identified)

		// bounds
		assert.GreaterOrEqual(t, res.Queries, n)
		assert.LessOrEqual(t, res.Queries, 2*bits*n)

		// split children are never empty, so the trie is a full binary tree
		assert.Equal(t, 0, res.IdleQueries)
		assert.Equal(t, 2*n-1, res.Queries)
		assert.Equal(t, n-1, res.Collisions)
		assert.LessOrEqual(t, res.MaxPrefixLen, bits)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	pop := randomPopulation(t, rand.New(rand.NewSource(3)), 50, 32)

	tr1, tr2 := trace.NewTrace(), trace.NewTrace()
	r1 := NewResolution(pop, tr1).Run()
	r2 := NewResolution(pop, tr2).Run()

	assert.Equal(t, r1, r2)
	assert.Equal(t, tr1.Queries, tr2.Queries)
}

func TestResolution_StateMachine(t *testing.T) {
	pop, err := ParsePopulation([]string{"00", "11"})
	require.NoError(t, err)

	res := NewResolution(pop, nil)
	assert.Equal(t, Running, res.State())
	assert.Equal(t, 0, res.Queries())

	// root collides and pushes "0" then "1"
	require.True(t, res.Step())
	assert.Equal(t, Running, res.State())
	assert.Equal(t, "[0 1]", res.Frontier().String())

	require.True(t, res.Step())
	require.True(t, res.Step())
	assert.Equal(t, Done, res.State())
	assert.Equal(t, 3, res.Queries())

	// stepping a finished run changes nothing
	assert.False(t, res.Step())
	assert.Equal(t, 3, res.Result().Queries)
}

func TestRunResult_Efficiency(t *testing.T) {
	assert.InDelta(t, 60.0, RunResult{Tags: 3, Queries: 5}.Efficiency(), 1e-9)
	assert.Equal(t, 0.0, RunResult{}.Efficiency())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "done", Done.String())
}
