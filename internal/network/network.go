// Package network holds the immutable programmer graph that every query runs
// against.
//
// A Network is built once by New from validated specs and is never mutated
// afterwards, so it can be read from any number of goroutines without locks.
// It carries two views of the same edges: the directed recommendation graph
// (A recommends B) and the undirected connection graph (A knows B).
package network

import (
	"fmt"
	"slices"
)

// ProgrammerSpec is the raw description of one programmer as produced by a
// loader. Order of Skills and Recommendations is significant.
type ProgrammerSpec struct {
	Name            string   `json:"name" yaml:"name"`
	Skills          []string `json:"skills,omitempty" yaml:"skills,omitempty"`
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Programmer is a node of the network.
type Programmer struct {
	index           int
	name            string
	skills          []string
	skillSet        map[string]struct{}
	recommendations []string
}

// Name returns the programmer's unique, case-sensitive name.
func (p *Programmer) Name() string { return p.name }

// Index is the programmer's position in declaration order.
func (p *Programmer) Index() int { return p.index }

// Skills returns a copy of the skills in declaration order.
func (p *Programmer) Skills() []string { return slices.Clone(p.skills) }

// Recommendations returns a copy of the recommended names in declaration order.
func (p *Programmer) Recommendations() []string { return slices.Clone(p.recommendations) }

// HasSkill reports whether the programmer declared skill.
func (p *Programmer) HasSkill(skill string) bool {
	_, ok := p.skillSet[skill]
	return ok
}

// Network is the validated, read-only programmer graph.
type Network struct {
	programmers []*Programmer
	byName      map[string]*Programmer

	// recommendation graph, by programmer index
	out [][]int
	in  [][]int

	// connection graph: undirected, deduplicated, ascending index order
	neighbours [][]int

	// skill -> holders in declaration order
	holders map[string][]*Programmer
	skills  []string
}

// New validates specs and builds a Network. Programmers keep the order in
// which they appear in specs.
func New(specs []ProgrammerSpec) (*Network, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyNetwork
	}

	n := &Network{
		programmers: make([]*Programmer, 0, len(specs)),
		byName:      make(map[string]*Programmer, len(specs)),
		holders:     make(map[string][]*Programmer),
	}

	// 1. Nodes and skills
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("programmer #%d: %w", i+1, ErrEmptyName)
		}
		if _, dup := n.byName[spec.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProgrammer, spec.Name)
		}
		p := &Programmer{
			index:           i,
			name:            spec.Name,
			skills:          make([]string, 0, len(spec.Skills)),
			skillSet:        make(map[string]struct{}, len(spec.Skills)),
			recommendations: make([]string, 0, len(spec.Recommendations)),
		}
		for _, skill := range spec.Skills {
			if skill == "" {
				return nil, fmt.Errorf("programmer %s: %w", spec.Name, ErrEmptySkill)
			}
			if p.HasSkill(skill) {
				return nil, fmt.Errorf("programmer %s: %w: %s", spec.Name, ErrDuplicateSkill, skill)
			}
			p.skills = append(p.skills, skill)
			p.skillSet[skill] = struct{}{}
			if _, seen := n.holders[skill]; !seen {
				n.skills = append(n.skills, skill)
			}
			n.holders[skill] = append(n.holders[skill], p)
		}
		n.programmers = append(n.programmers, p)
		n.byName[p.name] = p
	}

	// 2. Recommendation edges, once every node is known
	n.out = make([][]int, len(specs))
	n.in = make([][]int, len(specs))
	for i, spec := range specs {
		p := n.programmers[i]
		seen := make(map[string]struct{}, len(spec.Recommendations))
		for _, target := range spec.Recommendations {
			if _, dup := seen[target]; dup {
				return nil, fmt.Errorf("programmer %s: %w: %s", p.name, ErrDuplicateRecommendation, target)
			}
			seen[target] = struct{}{}
			if target == p.name {
				return nil, fmt.Errorf("%w: %s", ErrSelfRecommendation, p.name)
			}
			q, ok := n.byName[target]
			if !ok {
				return nil, fmt.Errorf("programmer %s: %w: %s", p.name, ErrUnknownProgrammer, target)
			}
			p.recommendations = append(p.recommendations, target)
			n.out[i] = append(n.out[i], q.index)
			n.in[q.index] = append(n.in[q.index], i)
		}
	}

	// 3. Connection graph
	n.neighbours = make([][]int, len(specs))
	for i := range n.programmers {
		adj := make([]int, 0, len(n.out[i])+len(n.in[i]))
		adj = append(adj, n.out[i]...)
		adj = append(adj, n.in[i]...)
		slices.Sort(adj)
		n.neighbours[i] = slices.Compact(adj)
	}

	return n, nil
}

// Len returns the number of programmers.
func (n *Network) Len() int { return len(n.programmers) }

// Programmers returns every programmer in declaration order.
func (n *Network) Programmers() []*Programmer { return slices.Clone(n.programmers) }

// At returns the programmer at index i.
func (n *Network) At(i int) *Programmer { return n.programmers[i] }

// EdgeCount returns the number of recommendation edges.
func (n *Network) EdgeCount() int {
	total := 0
	for _, targets := range n.out {
		total += len(targets)
	}
	return total
}

// OutDegree is the number of programmers i recommends.
func (n *Network) OutDegree(i int) int { return len(n.out[i]) }

// Recommenders returns the indices of programmers who recommend i. The slice
// is shared and must not be modified.
func (n *Network) Recommenders(i int) []int { return n.in[i] }

// Recommended returns the indices i recommends, in declaration order. The
// slice is shared and must not be modified.
func (n *Network) Recommended(i int) []int { return n.out[i] }

// Neighbours returns the connection-graph neighbours of i in ascending index
// order. The slice is shared and must not be modified.
func (n *Network) Neighbours(i int) []int { return n.neighbours[i] }

// Holders returns the programmers declaring skill, in declaration order.
func (n *Network) Holders(skill string) []*Programmer { return slices.Clone(n.holders[skill]) }

// SkillNames returns every distinct skill in first-seen order.
func (n *Network) SkillNames() []string { return slices.Clone(n.skills) }

// Specs converts the network back to loader specs.
func (n *Network) Specs() []ProgrammerSpec {
	specs := make([]ProgrammerSpec, 0, len(n.programmers))
	for _, p := range n.programmers {
		specs = append(specs, ProgrammerSpec{
			Name:            p.name,
			Skills:          p.Skills(),
			Recommendations: p.Recommendations(),
		})
	}
	return specs
}
