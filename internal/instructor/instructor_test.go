package instructor

import (
	"testing"

	"github.com/daniacca/potions/internal/potions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockedAlchemist(t *testing.T, seed int64, ingredients, forage int) *potions.Alchemist {
	t.Helper()
	catalogue, err := potions.NewCatalogueFromConfig(potions.DefaultCatalogueConfig(), potions.NewRand(seed))
	require.NoError(t, err)

	a := potions.NewAlchemist(catalogue, potions.NewRand(seed+1))
	for range ingredients {
		_, err := a.DiscoverNewIngredient()
		require.NoError(t, err)
	}
	require.NoError(t, a.Forage(forage))
	return a
}

func TestStrategies_DrainStock(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			a := newStockedAlchemist(t, 21, 25, 300)
			strategy, err := Lookup(name, potions.NewRand(3))
			require.NoError(t, err)
			assert.Equal(t, name, strategy.Name())

			res, err := strategy.Instruct(a)
			require.NoError(t, err)
			assert.Equal(t, name, res.Strategy)
			assert.Positive(t, res.Combinations)
			assert.Equal(t, 300-2*res.Combinations, a.TotalIngredientsRemaining())
			assert.LessOrEqual(t, a.WorthlessPotionCount(), res.Combinations)

			if name != "matching" {
				assert.LessOrEqual(t, a.VarietiesInStock(), 1)
			}
		})
	}
}

func TestMatchingEffects_LeavesNoKnownPairs(t *testing.T) {
	a := newStockedAlchemist(t, 5, 20, 200)

	res, err := MatchingEffects{}.Instruct(a)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Passes, 1)

	for _, effect := range a.KnownEffects() {
		assert.Less(t, len(inStock(a, a.IngredientsWithEffect(effect))), 2,
			"effect %s still has two stocked ingredients", effect)
	}
}

func TestMatchingThenRandom_FewerWorthlessPotions(t *testing.T) {
	base := newStockedAlchemist(t, 9, 40, 800)

	random := base.Clone()
	_, err := NewRandomPairs(potions.NewRand(1)).Instruct(random)
	require.NoError(t, err)

	matching := base.Clone()
	_, err = NewMatchingThenRandom(potions.NewRand(1)).Instruct(matching)
	require.NoError(t, err)

	assert.Less(t, matching.WorthlessPotionCount(), random.WorthlessPotionCount())
	assert.Equal(t, 800, base.TotalIngredientsRemaining(), "clones must not touch the base alchemist")
}

func TestRandomPairs_Deterministic(t *testing.T) {
	run := func() potions.Report {
		a := newStockedAlchemist(t, 13, 15, 120)
		_, err := NewRandomPairs(potions.NewRand(4)).Instruct(a)
		require.NoError(t, err)
		return a.Report()
	}
	assert.Equal(t, run(), run())
}

func TestRandomPairs_NothingToDo(t *testing.T) {
	a := newStockedAlchemist(t, 2, 1, 10)
	res, err := NewRandomPairs(nil).Instruct(a)
	require.NoError(t, err)
	assert.Zero(t, res.Combinations)
	assert.Equal(t, 10, a.TotalIngredientsRemaining())
}

func TestLookup(t *testing.T) {
	_, err := Lookup(" Matching ", nil)
	require.NoError(t, err)

	_, err = Lookup("randm", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "random"?`)

	_, err = Lookup("matching-then-randon", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "matching-then-random"?`)

	_, err = Lookup("alchemy", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one of random, matching, matching-then-random")
}
