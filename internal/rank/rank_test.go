package rank

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// literal is the undamped recurrence rank(p) = 1 + Σ rank(r)/outDegree(r).
var literal = Options{Damping: 1, Baseline: 1, Tolerance: 1e-12, MaxIterations: 100}

func build(t *testing.T, specs ...network.ProgrammerSpec) *network.Network {
	t.Helper()
	n, err := network.New(specs)
	require.NoError(t, err)
	return n
}

func cyclicNetwork(t *testing.T) *network.Network {
	return build(t,
		network.ProgrammerSpec{Name: "Bill", Recommendations: []string{"Jason", "Nick"}},
		network.ProgrammerSpec{Name: "Ed", Recommendations: []string{"Liz", "Rick", "Bill"}},
		network.ProgrammerSpec{Name: "Jason", Recommendations: []string{"Nick", "Bill"}},
		network.ProgrammerSpec{Name: "Liz"},
		network.ProgrammerSpec{Name: "Nick", Recommendations: []string{"Jason"}},
		network.ProgrammerSpec{Name: "Rick", Recommendations: []string{"Ed"}},
		network.ProgrammerSpec{Name: "Harry"},
	)
}

func TestSolve_LiteralRecurrenceOnChain(t *testing.T) {
	n := build(t,
		network.ProgrammerSpec{Name: "A", Recommendations: []string{"B"}},
		network.ProgrammerSpec{Name: "B", Recommendations: []string{"C"}},
		network.ProgrammerSpec{Name: "C"},
	)

	r := Solve(n, literal)

	require.True(t, r.Converged)
	assert.Equal(t, 3, r.Iterations)
	assert.InDelta(t, 1.0, r.Scores["A"], 1e-12)
	assert.InDelta(t, 2.0, r.Scores["B"], 1e-12)
	assert.InDelta(t, 3.0, r.Scores["C"], 1e-12)
}

func TestSolve_CreditSplitAcrossRecommendations(t *testing.T) {
	n := build(t,
		network.ProgrammerSpec{Name: "A", Recommendations: []string{"B", "C"}},
		network.ProgrammerSpec{Name: "B"},
		network.ProgrammerSpec{Name: "C"},
		network.ProgrammerSpec{Name: "D", Recommendations: []string{"C"}},
	)

	r := Solve(n, literal)

	require.True(t, r.Converged)
	assert.InDelta(t, 1.0, r.Scores["A"], 1e-12)
	assert.InDelta(t, 1.5, r.Scores["B"], 1e-12)
	assert.InDelta(t, 2.5, r.Scores["C"], 1e-12)
	assert.InDelta(t, 1.0, r.Scores["D"], 1e-12)
}

func TestSolve_DampedDefaults(t *testing.T) {
	n := build(t,
		network.ProgrammerSpec{Name: "A", Recommendations: []string{"B"}},
		network.ProgrammerSpec{Name: "B"},
		network.ProgrammerSpec{Name: "Loner"},
	)

	r := Solve(n, DefaultOptions())

	require.True(t, r.Converged)
	assert.InDelta(t, 0.15, r.Scores["A"], 1e-9)
	assert.InDelta(t, 0.15+0.85*0.15, r.Scores["B"], 1e-9)
	assert.InDelta(t, 0.15, r.Scores["Loner"], 1e-9)
}

func TestSolve_MutualPairIsAFixedPoint(t *testing.T) {
	n := build(t,
		network.ProgrammerSpec{Name: "A", Recommendations: []string{"B"}},
		network.ProgrammerSpec{Name: "B", Recommendations: []string{"A"}},
	)

	r := Solve(n, DefaultOptions())

	// r = 0.15 + 0.85r has r = 1, which is also the seed.
	require.True(t, r.Converged)
	assert.Equal(t, 1, r.Iterations)
	assert.InDelta(t, 1.0, r.Scores["A"], 1e-12)
	assert.InDelta(t, 1.0, r.Scores["B"], 1e-12)
}

func TestSolve_CyclicGraphConverges(t *testing.T) {
	n := cyclicNetwork(t)
	opts := DefaultOptions()

	r := Solve(n, opts)

	require.True(t, r.Converged)
	assert.Less(t, r.MaxDelta, opts.Tolerance)
	assert.LessOrEqual(t, r.Iterations, opts.MaxIterations)

	// Every score satisfies the recurrence.
	for i := 0; i < n.Len(); i++ {
		want := opts.Baseline
		for _, rec := range n.Recommenders(i) {
			want += opts.Damping * r.Scores[n.At(rec).Name()] / float64(n.OutDegree(rec))
		}
		assert.InDelta(t, want, r.Scores[n.At(i).Name()], 1e-8, n.At(i).Name())
	}
}

func TestSolve_IterationCapBoundsUndampedCycles(t *testing.T) {
	n := build(t,
		network.ProgrammerSpec{Name: "A", Recommendations: []string{"B"}},
		network.ProgrammerSpec{Name: "B", Recommendations: []string{"A"}},
	)
	opts := literal
	opts.MaxIterations = 50

	r := Solve(n, opts)

	assert.False(t, r.Converged)
	assert.Equal(t, 50, r.Iterations)
	assert.InDelta(t, 1.0, r.MaxDelta, 1e-12)
}

func TestSolve_IndependentOfDeclarationOrder(t *testing.T) {
	forward := cyclicNetwork(t)
	specs := forward.Specs()
	reversed := make([]network.ProgrammerSpec, 0, len(specs))
	for i := len(specs) - 1; i >= 0; i-- {
		reversed = append(reversed, specs[i])
	}
	backward := build(t, reversed...)

	a := Solve(forward, DefaultOptions())
	b := Solve(backward, DefaultOptions())

	for name, score := range a.Scores {
		assert.InDelta(t, score, b.Scores[name], 1e-9, name)
	}
}

func TestDefaultOptions_AreDamped(t *testing.T) {
	d := DefaultOptions()
	assert.Less(t, d.Damping, 1.0)
	assert.InDelta(t, 1.0, d.Damping+d.Baseline, 1e-12)

	undamped := Options{Damping: 1, Baseline: 1}
	undamped.Validate()
	assert.Equal(t, 1.0, undamped.Damping)
	assert.Equal(t, 1.0, undamped.Baseline)
}

func TestOptions_Validate(t *testing.T) {
	o := Options{Damping: 1.5, Baseline: -1, Tolerance: 0, MaxIterations: -3}
	o.Validate()
	assert.Equal(t, DefaultOptions(), o)

	keep := Options{Damping: 1, Baseline: 1, Tolerance: 1e-6, MaxIterations: 7}
	keep.Validate()
	assert.Equal(t, Options{Damping: 1, Baseline: 1, Tolerance: 1e-6, MaxIterations: 7}, keep)
}

func TestEngine_RankNotFound(t *testing.T) {
	e := NewEngine(cyclicNetwork(t), DefaultOptions())

	_, err := e.Rank(context.Background(), "blah")

	require.Error(t, err)
	assert.True(t, errors.Is(err, network.ErrProgrammerNotFound))
	assert.EqualError(t, err, "programmer blah was not found")
	assert.Nil(t, e.solved.Load(), "unknown names must not trigger a solve")
}

func TestEngine_RankMatchesSolve(t *testing.T) {
	n := cyclicNetwork(t)
	e := NewEngine(n, DefaultOptions())
	want := Solve(n, DefaultOptions())

	for _, p := range n.Programmers() {
		got, err := e.Rank(context.Background(), p.Name())
		require.NoError(t, err)
		assert.Equal(t, want.Scores[p.Name()], got, p.Name())
	}
}

func TestEngine_SolvesOnceUnderConcurrency(t *testing.T) {
	e := NewEngine(cyclicNetwork(t), DefaultOptions())

	const callers = 32
	results := make([]*Result, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = e.Ranks(context.Background())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.Same(t, results[0], e.Ranks(context.Background()))
}

func TestEngine_Leaderboard(t *testing.T) {
	n := build(t,
		network.ProgrammerSpec{Name: "Zed", Recommendations: []string{"Top"}},
		network.ProgrammerSpec{Name: "Amy", Recommendations: []string{"Top"}},
		network.ProgrammerSpec{Name: "Top"},
	)
	e := NewEngine(n, literal)

	board := e.Leaderboard(context.Background())

	require.Len(t, board, 3)
	assert.Equal(t, Entry{Name: "Top", Score: 3}, board[0])
	// Amy and Zed tie at 1; name breaks the tie.
	assert.Equal(t, "Amy", board[1].Name)
	assert.Equal(t, "Zed", board[2].Name)
}
