package network

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ExportDOT generates a Graphviz DOT representation of the recommendation
// graph. Each node is labelled with the programmer's skills.
func ExportDOT(n *Network) string {
	var b strings.Builder
	b.WriteString("digraph pronet {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\" shape=box style=filled fillcolor=\"#238636\"];\n")
	b.WriteString("  edge [color=\"#3fb950\"];\n\n")

	for _, p := range n.programmers {
		label := dotEscaper.Replace(p.name)
		if len(p.skills) > 0 {
			label += `\n` + dotEscaper.Replace(strings.Join(p.skills, ", "))
		}
		b.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\"];\n", dotEscaper.Replace(p.name), label))
	}
	b.WriteString("\n")

	for i, p := range n.programmers {
		for _, j := range n.out[i] {
			b.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\";\n",
				dotEscaper.Replace(p.name), dotEscaper.Replace(n.programmers[j].name)))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// ExportMermaid generates a Mermaid flowchart of the recommendation graph.
// Node IDs come from declaration order; names only appear in labels.
func ExportMermaid(n *Network) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	for i, p := range n.programmers {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", mermaidID(i), mermaidEscaper.Replace(p.name)))
	}
	for i := range n.programmers {
		for _, j := range n.out[i] {
			b.WriteString(fmt.Sprintf("  %s --> %s\n", mermaidID(i), mermaidID(j)))
		}
	}

	return b.String()
}

type exportDocument struct {
	Programmers []ProgrammerSpec `json:"programmers"`
	Stats       Stats            `json:"stats"`
}

// ExportJSON serializes the network in the loader's JSON layout, with stats
// attached.
func ExportJSON(n *Network) ([]byte, error) {
	return json.MarshalIndent(exportDocument{
		Programmers: n.Specs(),
		Stats:       ComputeStats(n),
	}, "", "  ")
}

// FormatStats returns a human-readable summary of network statistics.
func FormatStats(n *Network) string {
	s := ComputeStats(n)
	var b strings.Builder
	b.WriteString("Network Statistics\n")
	b.WriteString("==================\n\n")
	b.WriteString(fmt.Sprintf("Programmers:      %d\n", s.Programmers))
	b.WriteString(fmt.Sprintf("Recommendations:  %d\n", s.Recommendations))
	b.WriteString(fmt.Sprintf("Skills:           %d\n", s.Skills))
	b.WriteString(fmt.Sprintf("Max Fan-Out:      %d\n", s.MaxFanOut))
	if s.MostRecommended != "" {
		b.WriteString(fmt.Sprintf("Max Fan-In:       %d (%s)\n", s.MaxFanIn, s.MostRecommended))
	} else {
		b.WriteString(fmt.Sprintf("Max Fan-In:       %d\n", s.MaxFanIn))
	}
	b.WriteString(fmt.Sprintf("Mutual Pairs:     %d\n", s.MutualPairs))
	b.WriteString(fmt.Sprintf("Components:       %d\n", s.ConnectedComponents))
	b.WriteString(fmt.Sprintf("Isolated:         %d\n", s.Isolated))
	return b.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// mermaidEscaper uses Mermaid entity codes; backslash escapes are not
// understood inside labels.
var mermaidEscaper = strings.NewReplacer(`"`, "#quot;")

func mermaidID(index int) string {
	return "p" + strconv.Itoa(index)
}
