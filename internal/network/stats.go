package network

// Stats holds computed metrics about a network.
type Stats struct {
	Programmers         int    `json:"programmers"`
	Recommendations     int    `json:"recommendations"`
	Skills              int    `json:"skills"`
	MaxFanOut           int    `json:"max_fan_out"`
	MaxFanIn            int    `json:"max_fan_in"`
	MostRecommended     string `json:"most_recommended,omitempty"`
	MutualPairs         int    `json:"mutual_pairs"`
	ConnectedComponents int    `json:"connected_components"`
	Isolated            int    `json:"isolated"`
}

// ComputeStats walks the network once and summarises it. Ties for
// MostRecommended go to the earlier-declared programmer.
func ComputeStats(n *Network) Stats {
	s := Stats{
		Programmers:     n.Len(),
		Recommendations: n.EdgeCount(),
		Skills:          len(n.skills),
	}

	for i, p := range n.programmers {
		if d := len(n.out[i]); d > s.MaxFanOut {
			s.MaxFanOut = d
		}
		if d := len(n.in[i]); d > s.MaxFanIn {
			s.MaxFanIn = d
			s.MostRecommended = p.name
		}
		if len(n.neighbours[i]) == 0 {
			s.Isolated++
		}
		for _, j := range n.out[i] {
			if j > i && containsIndex(n.out[j], i) {
				s.MutualPairs++
			}
		}
	}

	s.ConnectedComponents = countComponents(n)
	return s
}

// countComponents counts connected components of the connection graph via
// union-find.
func countComponents(n *Network) int {
	parent := make([]int, n.Len())
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	components := n.Len()
	for i := range n.programmers {
		for _, j := range n.out[i] {
			ri, rj := find(i), find(j)
			if ri != rj {
				parent[ri] = rj
				components--
			}
		}
	}
	return components
}

func containsIndex(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
