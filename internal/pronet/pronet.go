// Package pronet answers questions about a professional network of
// programmers: who knows what, who recommends whom, how influential each
// programmer is, how far apart two programmers are and which team is
// strongest for a skill.
//
// A ProNet is immutable once built and safe for concurrent use.
package pronet

import (
	"context"

	"github.com/efebarandurmaz/pronet/internal/loader"
	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/efebarandurmaz/pronet/internal/observability"
	"github.com/efebarandurmaz/pronet/internal/rank"
	"github.com/efebarandurmaz/pronet/internal/separation"
	"github.com/efebarandurmaz/pronet/internal/team"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProNet is the query surface over one loaded network.
type ProNet struct {
	net       *network.Network
	ranks     *rank.Engine
	finder    *separation.Finder
	evaluator *team.Evaluator
	optimizer *team.Optimizer
	tracer    trace.Tracer
}

type settings struct {
	rank   rank.Options
	tracer trace.Tracer
}

// Option customises a ProNet.
type Option func(*settings)

// WithRankOptions overrides the rank relaxation parameters.
func WithRankOptions(opts rank.Options) Option {
	return func(s *settings) { s.rank = opts }
}

// WithTracer sets the tracer used for query spans. The global tracer is used
// otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *settings) { s.tracer = tracer }
}

// New builds a ProNet over an already validated network.
func New(n *network.Network, opts ...Option) *ProNet {
	s := settings{rank: rank.DefaultOptions()}
	for _, opt := range opts {
		opt(&s)
	}

	engine := rank.NewEngine(n, s.rank)
	return &ProNet{
		net:       n,
		ranks:     engine,
		finder:    separation.NewFinder(n),
		evaluator: team.NewEvaluator(n, engine),
		optimizer: team.NewOptimizer(n, engine),
		tracer:    s.tracer,
	}
}

// Load reads the network stored at source. Loader errors are returned
// unchanged.
func Load(ctx context.Context, source string, opts ...Option) (*ProNet, error) {
	n, err := loader.LoadNetwork(ctx, source)
	if err != nil {
		return nil, err
	}
	return New(n, opts...), nil
}

// Network returns the underlying network.
func (p *ProNet) Network() *network.Network { return p.net }

// Skills returns the skills of programmer, in declaration order.
func (p *ProNet) Skills(ctx context.Context, programmer string) ([]string, error) {
	_, span := p.startSpan(ctx, "Skills", attribute.String("pronet.programmer", programmer))
	defer span.End()

	skills, err := p.net.Skills(programmer)
	observability.RecordError(span, err)
	return skills, err
}

// Recommendations returns whom programmer recommends, in declaration order.
func (p *ProNet) Recommendations(ctx context.Context, programmer string) ([]string, error) {
	_, span := p.startSpan(ctx, "Recommendations", attribute.String("pronet.programmer", programmer))
	defer span.End()

	recs, err := p.net.Recommendations(programmer)
	observability.RecordError(span, err)
	return recs, err
}

// Rank returns the influence score of programmer.
func (p *ProNet) Rank(ctx context.Context, programmer string) (float64, error) {
	ctx, span := p.startSpan(ctx, "Rank", attribute.String("pronet.programmer", programmer))
	defer span.End()

	score, err := p.ranks.Rank(ctx, programmer)
	observability.RecordError(span, err)
	return score, err
}

// DegreesOfSeparation returns the number of hops between two programmers,
// following recommendations in either direction.
func (p *ProNet) DegreesOfSeparation(ctx context.Context, programmer1, programmer2 string) (int, error) {
	_, span := p.startSpan(ctx, "DegreesOfSeparation",
		attribute.String("pronet.from", programmer1),
		attribute.String("pronet.to", programmer2),
	)
	defer span.End()

	degrees, err := p.finder.Degrees(programmer1, programmer2)
	observability.RecordError(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("pronet.degrees", degrees))
	}
	return degrees, err
}

// Path returns one shortest chain of programmers from programmer1 to
// programmer2, both included.
func (p *ProNet) Path(ctx context.Context, programmer1, programmer2 string) ([]string, error) {
	_, span := p.startSpan(ctx, "Path",
		attribute.String("pronet.from", programmer1),
		attribute.String("pronet.to", programmer2),
	)
	defer span.End()

	path, err := p.finder.Path(programmer1, programmer2)
	observability.RecordError(span, err)
	return path, err
}

// TeamStrength returns the share, in [0, 1], of the network's expertise in
// skill that team holds.
func (p *ProNet) TeamStrength(ctx context.Context, skill string, members []string) (float64, error) {
	ctx, span := p.startSpan(ctx, "TeamStrength",
		attribute.String("pronet.skill", skill),
		attribute.StringSlice("pronet.team", members),
	)
	defer span.End()

	strength, err := p.evaluator.Strength(ctx, skill, members)
	observability.RecordError(span, err)
	return strength, err
}

// FindStrongestTeam returns the size programmers with the highest combined
// strength for skill, strongest first.
func (p *ProNet) FindStrongestTeam(ctx context.Context, skill string, size int) ([]string, error) {
	ctx, span := p.startSpan(ctx, "FindStrongestTeam",
		attribute.String("pronet.skill", skill),
		attribute.Int("pronet.team_size", size),
	)
	defer span.End()

	members, err := p.optimizer.Strongest(ctx, skill, size)
	observability.RecordError(span, err)
	return members, err
}

// Candidates lists every holder of skill with their rank, strongest first.
func (p *ProNet) Candidates(ctx context.Context, skill string) []rank.Entry {
	ctx, span := p.startSpan(ctx, "Candidates", attribute.String("pronet.skill", skill))
	defer span.End()

	return p.optimizer.Candidates(ctx, skill)
}

// Leaderboard lists every programmer by descending rank.
func (p *ProNet) Leaderboard(ctx context.Context) []rank.Entry {
	ctx, span := p.startSpan(ctx, "Leaderboard")
	defer span.End()

	return p.ranks.Leaderboard(ctx)
}

func (p *ProNet) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return observability.StartQuerySpan(ctx, p.tracer, operation, attrs...)
}
