package rank

import (
	"cmp"
	"context"
	"slices"
)

// Entry is one row of a leaderboard.
type Entry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Compare orders entries by descending score, then ascending name.
func Compare(a, b Entry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// Leaderboard lists every programmer, strongest first.
func (e *Engine) Leaderboard(ctx context.Context) []Entry {
	r := e.Ranks(ctx)
	entries := make([]Entry, 0, len(r.Scores))
	for name, score := range r.Scores {
		entries = append(entries, Entry{Name: name, Score: score})
	}
	slices.SortFunc(entries, Compare)
	return entries
}
