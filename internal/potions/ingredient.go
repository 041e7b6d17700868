package potions

import (
	"cmp"
	"fmt"
)

// EffectsPerIngredient is the number of distinct effects every ingredient has.
const EffectsPerIngredient = 4

// IngredientID identifies an ingredient. Zero is reserved.
type IngredientID uint32

// Ingredient is a bundle of distinct status effects. Ingredients are compared
// by ID only.
type Ingredient struct {
	ID      IngredientID                 `json:"id"`
	Effects [EffectsPerIngredient]Effect `json:"effects"`
}

// Rarity returns the mean rarity of the ingredient's effects.
func (i Ingredient) Rarity() float64 {
	sum := 0.0
	for _, e := range i.Effects {
		sum += e.Rarity
	}
	return sum / EffectsPerIngredient
}

// HasEffect reports whether e is one of the ingredient's effects.
func (i Ingredient) HasEffect(e Effect) bool {
	for _, own := range i.Effects {
		if own.Equal(e) {
			return true
		}
	}
	return false
}

// Equal reports whether i and other are the same ingredient.
func (i Ingredient) Equal(other Ingredient) bool {
	return i.ID == other.ID
}

// CompareIngredients orders ingredients by ID, for use with slices.SortFunc.
func CompareIngredients(a, b Ingredient) int {
	return cmp.Compare(a.ID, b.ID)
}

func (i Ingredient) String() string {
	return fmt.Sprintf("ingredient#%d", i.ID)
}

// MintIngredient creates an ingredient with EffectsPerIngredient distinct
// effects. The effects are drawn without replacement from a private copy of
// the catalogue's pool, so the catalogue itself is left untouched.
func (c *Catalogue) MintIngredient() (Ingredient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.effects) < EffectsPerIngredient {
		return Ingredient{}, fmt.Errorf("%w: have %d, need %d",
			ErrInsufficientEffects, len(c.effects), EffectsPerIngredient)
	}

	snapshot := c.pool.Clone()
	ing := Ingredient{ID: c.nextIngredientID}
	for n := range ing.Effects {
		e, err := snapshot.Draw()
		if err != nil {
			return Ingredient{}, fmt.Errorf("drawing effect %d: %w", n, err)
		}
		ing.Effects[n] = e
	}
	c.nextIngredientID++

	c.logger.Debugf("ingredient minted: id=%d effects=%v", ing.ID, ing.Effects)
	return ing, nil
}
