package movie

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// suggestThreshold is the minimum Jaro-Winkler similarity for a suggestion.
const suggestThreshold = 0.85

// SuggestGenre returns the known genre closest to g, or "" when nothing is
// similar enough. Comparison is done on case-folded values so "action"
// suggests "Action".
func SuggestGenre(g string) string {
	folded := FoldGenre(strings.TrimSpace(g))
	if folded == "" {
		return ""
	}

	var best string
	var bestScore float32
	for _, known := range genres {
		score := edlib.JaroWinklerSimilarity(folded, FoldGenre(known))
		if score > bestScore {
			best, bestScore = known, score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}
