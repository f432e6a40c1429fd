package itemerr

import (
	"sort"

	"github.com/agext/levenshtein"
)

// suggestionDistance is the maximum edit distance for a candidate to count as
// a near-name match. Same cutoff HCL uses for its own "did you mean" hints.
const suggestionDistance = 3

// maxSuggestions caps how many near matches one error carries.
const maxSuggestions = 3

// Suggest returns the candidates nearest to name by edit distance, closest
// first, or nil when nothing is close enough.
func Suggest(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}

	var near []scored
	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		dist := levenshtein.Distance(name, candidate, nil)
		if dist < suggestionDistance {
			near = append(near, scored{candidate, dist})
		}
	}

	sort.Slice(near, func(i, j int) bool {
		if near[i].dist != near[j].dist {
			return near[i].dist < near[j].dist
		}
		return near[i].name < near[j].name
	})

	if len(near) > maxSuggestions {
		near = near[:maxSuggestions]
	}

	out := make([]string, len(near))
	for i, s := range near {
		out[i] = s.name
	}
	return out
}
