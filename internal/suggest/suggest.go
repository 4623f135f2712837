// Package suggest ranks near-miss identifiers for validation error messages.
package suggest

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Distance is a case-insensitive edit distance with one shortcut: when one
// string is a prefix of the other, the distance is zero. Tour identifiers
// are dotted paths, so a prefix almost always means the author stopped one
// segment short rather than mistyped.
func Distance(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
		return 0
	}
	return levenshtein.Distance(a, b, nil)
}

// Top returns the n closest candidates to input, ranked by ascending
// distance with a lexicographic tie-break for stable output.
func Top(input string, candidates []string, n int) []string {
	type scored struct {
		value string
		dist  int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{value: c, dist: Distance(input, c)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].value < ranked[j].value
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, s := range ranked[:n] {
		out = append(out, s.value)
	}
	return out
}
