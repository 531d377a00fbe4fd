package team

import (
	"context"
	"errors"
	"slices"

	"github.com/efebarandurmaz/pronet/internal/network"
	"github.com/efebarandurmaz/pronet/internal/rank"
)

// ErrInvalidTeamSize is returned for a requested team size below one.
var ErrInvalidTeamSize = errors.New("team size must be greater than zero")

// Optimizer finds the strongest team of a given size for a skill.
type Optimizer struct {
	net    *network.Network
	ranker Ranker
}

// NewOptimizer creates an Optimizer. ranker must rank the same network.
func NewOptimizer(n *network.Network, ranker Ranker) *Optimizer {
	return &Optimizer{net: n, ranker: ranker}
}

// Strongest returns up to size holders of skill with the highest ranks,
// strongest first; equal ranks are ordered by name. When fewer than size
// programmers hold the skill, all of them are returned. A skill nobody holds
// yields an empty team.
func (o *Optimizer) Strongest(ctx context.Context, skill string, size int) ([]string, error) {
	if size <= 0 {
		return nil, ErrInvalidTeamSize
	}

	candidates := o.Candidates(ctx, skill)
	if len(candidates) > size {
		candidates = candidates[:size]
	}

	team := make([]string, 0, len(candidates))
	for _, c := range candidates {
		team = append(team, c.Name)
	}
	return team, nil
}

// Candidates lists every holder of skill with their rank, strongest first.
func (o *Optimizer) Candidates(ctx context.Context, skill string) []rank.Entry {
	holders := o.net.Holders(skill)
	if len(holders) == 0 {
		return []rank.Entry{}
	}

	ranks := o.ranker.Ranks(ctx)
	entries := make([]rank.Entry, 0, len(holders))
	for _, p := range holders {
		score, _ := ranks.Score(p.Name())
		entries = append(entries, rank.Entry{Name: p.Name(), Score: score})
	}
	slices.SortFunc(entries, rank.Compare)
	return entries
}
