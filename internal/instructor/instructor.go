// Package instructor holds strategies that tell an alchemist which
// ingredients to combine. Strategies only use the alchemist's public API.
package instructor

import (
	"fmt"
	"math/rand/v2"

	"github.com/daniacca/potions/internal/potions"
)

// Result summarises a strategy run.
type Result struct {
	Strategy     string `json:"strategy"`
	Combinations int    `json:"combinations"`
	Passes       int    `json:"passes,omitempty"`
}

// Strategy combines an alchemist's stock until it has nothing left to do.
type Strategy interface {
	Name() string
	Instruct(a *potions.Alchemist) (Result, error)
}

// RandomPairs combines two distinct in-stock ingredients chosen uniformly at
// random until fewer than two varieties remain.
type RandomPairs struct {
	rng *rand.Rand
}

// NewRandomPairs creates the strategy. A nil rng uses the global generator.
func NewRandomPairs(rng *rand.Rand) *RandomPairs {
	return &RandomPairs{rng: rng}
}

func (s *RandomPairs) Name() string { return "random" }

func (s *RandomPairs) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

func (s *RandomPairs) Instruct(a *potions.Alchemist) (Result, error) {
	res := Result{Strategy: s.Name()}
	for {
		stocked := inStock(a, a.KnownIngredients())
		if len(stocked) < 2 {
			return res, nil
		}
		first := s.intN(len(stocked))
		second := s.intN(len(stocked) - 1)
		if second >= first {
			second++
		}
		if _, err := a.Combine(stocked[first], stocked[second]); err != nil {
			return res, fmt.Errorf("random pair %d: %w", res.Combinations+1, err)
		}
		res.Combinations++
	}
}

// MatchingEffects repeatedly walks every known effect and combines pairs of
// in-stock ingredients known to share it. Each combination can teach new
// effects, so passes continue until one makes no combination.
type MatchingEffects struct{}

func (MatchingEffects) Name() string { return "matching" }

func (s MatchingEffects) Instruct(a *potions.Alchemist) (Result, error) {
	res := Result{Strategy: s.Name()}
	for {
		res.Passes++
		progressed := false
		for _, effect := range a.KnownEffects() {
			for {
				stocked := inStock(a, a.IngredientsWithEffect(effect))
				if len(stocked) < 2 {
					break
				}
				if _, err := a.Combine(stocked[0], stocked[1]); err != nil {
					return res, fmt.Errorf("matching %s: %w", effect, err)
				}
				res.Combinations++
				progressed = true
			}
		}
		if !progressed {
			return res, nil
		}
	}
}

// MatchingThenRandom runs MatchingEffects and then RandomPairs on whatever
// is left.
type MatchingThenRandom struct {
	random *RandomPairs
}

// NewMatchingThenRandom creates the strategy; rng drives the random phase.
func NewMatchingThenRandom(rng *rand.Rand) *MatchingThenRandom {
	return &MatchingThenRandom{random: NewRandomPairs(rng)}
}

func (s *MatchingThenRandom) Name() string { return "matching-then-random" }

func (s *MatchingThenRandom) Instruct(a *potions.Alchemist) (Result, error) {
	matched, err := MatchingEffects{}.Instruct(a)
	if err != nil {
		return matched, err
	}
	rest, err := s.random.Instruct(a)
	return Result{
		Strategy:     s.Name(),
		Combinations: matched.Combinations + rest.Combinations,
		Passes:       matched.Passes,
	}, err
}

func inStock(a *potions.Alchemist, ingredients []potions.Ingredient) []potions.Ingredient {
	out := make([]potions.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if a.HasIngredient(ing) {
			out = append(out, ing)
		}
	}
	return out
}
