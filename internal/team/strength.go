// Package team scores and assembles teams of programmers for a skill.
//
// A team's strength for a skill is the share of the network's total rank
// among holders of that skill that the team's holders account for. The score
// is additive per member, which is what lets the optimizer pick the best
// team by sorting instead of enumerating subsets.
package team

import (
	"context"

	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/efebarandurmaz/pronet/internal/rank"
)

// Ranker supplies the solved rank vector.
type Ranker interface {
	Ranks(ctx context.Context) *rank.Result
}

// Evaluator scores candidate teams.
type Evaluator struct {
	net    *network.Network
	ranker Ranker
}

// NewEvaluator creates an Evaluator. ranker must rank the same network.
func NewEvaluator(n *network.Network, ranker Ranker) *Evaluator {
	return &Evaluator{net: n, ranker: ranker}
}

// Strength returns the fraction, in [0, 1], of the network's expertise in
// skill that members represent. Members without the skill contribute 0 and a
// member listed twice is counted once. The first unknown member fails the
// call with *network.ProgrammerNotFoundError. A skill nobody holds scores 0.
func (e *Evaluator) Strength(ctx context.Context, skill string, members []string) (float64, error) {
	team := make([]*network.Programmer, 0, len(members))
	for _, name := range members {
		p, err := e.net.Lookup(name)
		if err != nil {
			return 0, err
		}
		team = append(team, p)
	}

	holders := e.net.Holders(skill)
	if len(holders) == 0 {
		return 0, nil
	}

	ranks := e.ranker.Ranks(ctx)
	total := sumRanks(ranks, holders)
	if total == 0 {
		return 0, nil
	}

	seen := make(map[int]struct{}, len(team))
	contribution := 0.0
	for _, p := range team {
		if _, dup := seen[p.Index()]; dup || !p.HasSkill(skill) {
			continue
		}
		seen[p.Index()] = struct{}{}
		score, _ := ranks.Score(p.Name())
		contribution += score
	}

	strength := contribution / total
	// Rounding can leave a full team fractionally above 1.
	if strength > 1 {
		strength = 1
	}
	return strength, nil
}

func sumRanks(ranks *rank.Result, programmers []*network.Programmer) float64 {
	total := 0.0
	for _, p := range programmers {
		score, _ := ranks.Score(p.Name())
		total += score
	}
	return total
}
