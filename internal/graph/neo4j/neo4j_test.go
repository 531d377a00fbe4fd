package neo4j

import (
	"testing"

	"github.com/efebarandurmaz/pronet/internal/network"
)

func TestSpecsFromRows_OrdersByPosition(t *testing.T) {
	rows := []row{
		{name: "Rick", position: int64(1), skills: []any{"Perl"}, recommendations: []any{"Ed"}},
		{name: "Ed", position: int64(0), skills: []any{"C++", "Java"}, recommendations: []any{"Rick"}},
	}

	specs, err := specsFromRows(rows)
	if err != nil {
		t.Fatalf("specsFromRows: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].Name != "Ed" || specs[1].Name != "Rick" {
		t.Errorf("expected Ed then Rick, got %s then %s", specs[0].Name, specs[1].Name)
	}
	if got := specs[0].Skills; len(got) != 2 || got[0] != "C++" || got[1] != "Java" {
		t.Errorf("Ed skills = %v", got)
	}

	n, err := network.New(specs)
	if err != nil {
		t.Fatalf("stored rows should form a valid network: %v", err)
	}
	if n.EdgeCount() != 2 {
		t.Errorf("expected 2 recommendations, got %d", n.EdgeCount())
	}
}

func TestSpecsFromRows_NullsAndMissingPosition(t *testing.T) {
	rows := []row{
		{name: "Harry", position: nil, skills: nil, recommendations: []any{nil}},
	}

	specs, err := specsFromRows(rows)
	if err != nil {
		t.Fatalf("specsFromRows: %v", err)
	}
	if len(specs[0].Skills) != 0 {
		t.Errorf("expected no skills, got %v", specs[0].Skills)
	}
	// OPTIONAL MATCH with no relationship collects nothing.
	if len(specs[0].Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", specs[0].Recommendations)
	}
}

func TestSpecsFromRows_TypeErrors(t *testing.T) {
	tests := []struct {
		name string
		row  row
	}{
		{"name not string", row{name: int64(3)}},
		{"skills not list", row{name: "A", skills: "Go"}},
		{"skill not string", row{name: "A", skills: []any{int64(1)}}},
		{"recommendations not list", row{name: "A", recommendations: map[string]any{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := specsFromRows([]row{tt.row}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProgrammerParams(t *testing.T) {
	n, err := network.New([]network.ProgrammerSpec{
		{Name: "A", Skills: []string{"Go"}},
		{Name: "B", Skills: []string{"Rust", "C"}},
	})
	if err != nil {
		t.Fatalf("network.New: %v", err)
	}

	params := programmerParams(n.At(1))
	if params["name"] != "B" {
		t.Errorf("name = %v", params["name"])
	}
	if params["position"] != 1 {
		t.Errorf("position = %v", params["position"])
	}
	skills, ok := params["skills"].([]any)
	if !ok || len(skills) != 2 || skills[0] != "Rust" {
		t.Errorf("skills = %v", params["skills"])
	}
}
