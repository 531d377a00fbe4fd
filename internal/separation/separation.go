// Package separation answers social-distance queries over the connection
// graph, the undirected view of the recommendation graph.
package separation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/efebarandurmaz/pronet/internal/network"
)

// ErrUnreachable is matched by every failure for a pair of programmers with
// no connecting path.
var ErrUnreachable = errors.New("no connection path")

// UnreachableError reports that From and To are in different components.
type UnreachableError struct {
	From string
	To   string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("programmers %s and %s are not connected", e.From, e.To)
}

// Is makes errors.Is(err, ErrUnreachable) succeed.
func (e *UnreachableError) Is(target error) bool {
	return target == ErrUnreachable
}

// Finder runs breadth-first searches on one network.
//
// Thread Safety: Safe for concurrent use; each search allocates its own state.
type Finder struct {
	net *network.Network
}

// NewFinder creates a Finder over n.
func NewFinder(n *network.Network) *Finder {
	return &Finder{net: n}
}

// Degrees returns the number of hops between from and to. It is 0 when from
// equals to. Unknown names fail with *network.ProgrammerNotFoundError, from
// checked first; disconnected pairs fail with *UnreachableError.
func (f *Finder) Degrees(from, to string) (int, error) {
	src, dst, err := f.resolve(from, to)
	if err != nil {
		return 0, err
	}
	dist, _ := f.search(src, dst)
	if dist < 0 {
		return 0, &UnreachableError{From: from, To: to}
	}
	return dist, nil
}

// Path returns one shortest chain of names from from to to, both included.
// Neighbours are expanded in declaration order, so the chain is stable for a
// given network.
func (f *Finder) Path(from, to string) ([]string, error) {
	src, dst, err := f.resolve(from, to)
	if err != nil {
		return nil, err
	}
	dist, parent := f.search(src, dst)
	if dist < 0 {
		return nil, &UnreachableError{From: from, To: to}
	}

	path := make([]string, 0, dist+1)
	for at := dst; at != -1; at = parent[at] {
		path = append(path, f.net.At(at).Name())
	}
	slices.Reverse(path)
	return path, nil
}

func (f *Finder) resolve(from, to string) (int, int, error) {
	a, err := f.net.Lookup(from)
	if err != nil {
		return 0, 0, err
	}
	b, err := f.net.Lookup(to)
	if err != nil {
		return 0, 0, err
	}
	return a.Index(), b.Index(), nil
}

// search returns the hop distance from src to dst (-1 if unreachable) and the
// BFS parent of every visited node (-1 for src and unvisited nodes). The
// search stops as soon as dst is dequeued.
func (f *Finder) search(src, dst int) (int, []int) {
	size := f.net.Len()
	dist := make([]int, size)
	parent := make([]int, size)
	for i := range dist {
		dist[i] = -1
		parent[i] = -1
	}

	dist[src] = 0
	queue := make([]int, 0, size)
	queue = append(queue, src)

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		if current == dst {
			return dist[current], parent
		}
		for _, next := range f.net.Neighbours(current) {
			if dist[next] != -1 {
				continue
			}
			dist[next] = dist[current] + 1
			parent[next] = current
			queue = append(queue, next)
		}
	}
	return -1, parent
}
