package instructor

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Names lists the strategies Lookup understands.
var Names = []string{"random", "matching", "matching-then-random"}

// Lookup builds the named strategy. Unknown names get a suggestion for the
// closest known name.
func Lookup(name string, rng *rand.Rand) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random":
		return NewRandomPairs(rng), nil
	case "matching":
		return MatchingEffects{}, nil
	case "matching-then-random":
		return NewMatchingThenRandom(rng), nil
	}
	if s := suggest(name); s != "" {
		return nil, fmt.Errorf("unknown strategy %q, did you mean %q?", name, s)
	}
	return nil, fmt.Errorf("unknown strategy %q, expected one of %s", name, strings.Join(Names, ", "))
}

// suggest returns the closest known name, or "" if nothing is close enough to
// be a plausible typo.
func suggest(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", -1
	for _, candidate := range Names {
		d := levenshtein.ComputeDistance(name, candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist < 0 || bestDist > len(best)/3 {
		return ""
	}
	return best
}
