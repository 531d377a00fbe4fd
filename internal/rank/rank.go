// Package rank computes the influence score of every programmer from the
// recommendation graph.
//
// The rank of p is the fixed point of
//
//	rank(p) = Baseline + Damping * Σ rank(r) / outDegree(r)
//
// summed over every r that recommends p. Recommendation graphs may be cyclic,
// so the vector is solved by synchronous relaxation: every iteration derives
// the new vector from the previous one only. Iteration stops when the largest
// change drops below Tolerance or after MaxIterations passes.
//
// The solved vector is deterministic for a given network, so an Engine solves
// it once and hands the same published Result to every caller.
package rank

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/efebarandurmaz/pronet/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Rank configuration defaults.
const (
	// DefaultDamping is the share of a recommender's rank that flows along
	// its recommendations.
	DefaultDamping = 0.85

	// DefaultBaseline is the rank every programmer has on their own.
	DefaultBaseline = 1 - DefaultDamping

	// DefaultTolerance is the max per-programmer change that counts as converged.
	DefaultTolerance = 1e-9

	// DefaultMaxIterations bounds the work done on pathological graphs.
	DefaultMaxIterations = 10000

	// initialRank seeds every programmer before the first pass.
	initialRank = 1.0
)

// Options configures the relaxation. Damping: 1, Baseline: 1 is the undamped
// form rank(p) = 1 + Σ rank(r) / outDegree(r); on cyclic graphs it only stops
// at MaxIterations.
type Options struct {
	// Damping must be in (0, 1]. Values below 1 guarantee a unique fixed point
	// on cyclic graphs.
	Damping float64

	// Baseline must be > 0.
	Baseline float64

	// Tolerance must be > 0.
	Tolerance float64

	// MaxIterations must be > 0.
	MaxIterations int
}

// DefaultOptions returns the damped form used by the ProNet rank.
func DefaultOptions() Options {
	return Options{
		Damping:       DefaultDamping,
		Baseline:      DefaultBaseline,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate replaces out-of-range values with defaults.
func (o *Options) Validate() {
	if o.Damping <= 0 || o.Damping > 1 || math.IsNaN(o.Damping) {
		o.Damping = DefaultDamping
	}
	if o.Baseline <= 0 || math.IsNaN(o.Baseline) || math.IsInf(o.Baseline, 0) {
		o.Baseline = DefaultBaseline
	}
	if o.Tolerance <= 0 || math.IsNaN(o.Tolerance) {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
}

// Result is a solved rank vector.
type Result struct {
	// Scores maps programmer name to rank.
	Scores map[string]float64

	// Iterations is the number of relaxation passes performed.
	Iterations int

	// Converged is false when MaxIterations was hit first.
	Converged bool

	// MaxDelta is the largest change observed in the final pass.
	MaxDelta float64
}

// Score returns the rank of name and whether it is known.
func (r *Result) Score(name string) (float64, bool) {
	s, ok := r.Scores[name]
	return s, ok
}

// Solve runs the relaxation over n. It never fails; a non-converged result is
// reported through Result.Converged.
func Solve(n *network.Network, opts Options) *Result {
	opts.Validate()

	size := n.Len()
	cur := make([]float64, size)
	next := make([]float64, size)
	for i := range cur {
		cur[i] = initialRank
	}

	// Precompute each recommender's share divisor.
	share := make([]float64, size)
	for i := range share {
		if d := n.OutDegree(i); d > 0 {
			share[i] = opts.Damping / float64(d)
		}
	}

	var (
		iterations int
		converged  bool
		maxDelta   float64
	)
	for iterations < opts.MaxIterations {
		maxDelta = 0
		for p := 0; p < size; p++ {
			v := opts.Baseline
			for _, r := range n.Recommenders(p) {
				v += cur[r] * share[r]
			}
			next[p] = v
			if d := math.Abs(v - cur[p]); d > maxDelta {
				maxDelta = d
			}
		}
		cur, next = next, cur
		iterations++

		if maxDelta < opts.Tolerance {
			converged = true
			break
		}
	}

	scores := make(map[string]float64, size)
	for i, v := range cur {
		scores[n.At(i).Name()] = v
	}
	return &Result{
		Scores:     scores,
		Iterations: iterations,
		Converged:  converged,
		MaxDelta:   maxDelta,
	}
}

// Engine lazily solves and caches the rank vector of one network.
//
// Thread Safety: Safe for concurrent use. Concurrent first callers share a
// single solve; the result is published atomically and never mutated.
type Engine struct {
	net    *network.Network
	opts   Options
	flight singleflight.Group
	solved atomic.Pointer[Result]
}

// NewEngine creates an engine over n.
func NewEngine(n *network.Network, opts Options) *Engine {
	opts.Validate()
	return &Engine{net: n, opts: opts}
}

// Options returns the validated options in effect.
func (e *Engine) Options() Options { return e.opts }

// Ranks returns the solved vector, solving it on first use.
// Callers must treat the returned Result as read-only.
func (e *Engine) Ranks(ctx context.Context) *Result {
	if r := e.solved.Load(); r != nil {
		return r
	}

	v, _, _ := e.flight.Do("ranks", func() (any, error) {
		// Another caller may have published while we queued.
		if r := e.solved.Load(); r != nil {
			return r, nil
		}

		_, span := observability.StartRankSpan(ctx, e.net.Len(), e.net.EdgeCount())
		defer span.End()

		r := Solve(e.net, e.opts)
		observability.RecordRankSolve(span, r.Iterations, r.Converged, r.MaxDelta)
		slog.Debug("rank solve completed",
			slog.Int("iterations", r.Iterations),
			slog.Bool("converged", r.Converged),
			slog.Float64("max_delta", r.MaxDelta),
			slog.Int("programmers", e.net.Len()),
		)
		if !r.Converged {
			slog.Warn("rank solve hit iteration cap",
				slog.Int("max_iterations", e.opts.MaxIterations),
				slog.Float64("max_delta", r.MaxDelta),
			)
		}

		e.solved.Store(r)
		return r, nil
	})
	return v.(*Result)
}

// Rank returns the rank of name, or a *network.ProgrammerNotFoundError.
func (e *Engine) Rank(ctx context.Context, name string) (float64, error) {
	if _, err := e.net.Lookup(name); err != nil {
		return 0, err
	}
	score, _ := e.Ranks(ctx).Score(name)
	return score, nil
}
