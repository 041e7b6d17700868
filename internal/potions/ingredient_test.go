package potions

import (
	"errors"
	"testing"
)

func TestMintIngredient_NeedsFourEffects(t *testing.T) {
	c := newTestCatalogue(t, 1, 1, 1)
	if _, err := c.MintIngredient(); !errors.Is(err, ErrInsufficientEffects) {
		t.Fatalf("Expected ErrInsufficientEffects, got %v", err)
	}

	if _, err := c.Mint(1); err != nil {
		t.Fatal(err)
	}
	ing, err := c.MintIngredient()
	if err != nil {
		t.Fatalf("Expected minting to succeed with 4 effects, got %v", err)
	}
	if ing.ID != 1 {
		t.Errorf("Expected first ingredient id 1, got %d", ing.ID)
	}
}

func TestMintIngredient_DistinctEffects(t *testing.T) {
	c := newTestCatalogue(t, 1, 1, 1, 1, 1)

	for i := range 200 {
		ing, err := c.MintIngredient()
		if err != nil {
			t.Fatalf("MintIngredient %d failed: %v", i, err)
		}
		if ing.ID != IngredientID(i+1) {
			t.Errorf("Expected ingredient id %d, got %d", i+1, ing.ID)
		}

		seen := make(map[EffectID]bool)
		for _, e := range ing.Effects {
			if e.ID < 1 || e.ID > 5 {
				t.Fatalf("Effect id %d not in catalogue", e.ID)
			}
			if seen[e.ID] {
				t.Fatalf("Ingredient %d has effect %d twice: %v", ing.ID, e.ID, ing.Effects)
			}
			seen[e.ID] = true
		}
	}

	// Minting draws from a private copy, so the catalogue keeps every effect.
	if c.Count() != 5 {
		t.Errorf("Expected catalogue to keep 5 effects, got %d", c.Count())
	}
	seen := make(map[EffectID]bool)
	for range 500 {
		e, err := c.SampleExisting()
		if err != nil {
			t.Fatal(err)
		}
		seen[e.ID] = true
	}
	if len(seen) != 5 {
		t.Errorf("Expected all 5 effects to remain sampleable, saw %d", len(seen))
	}
}

func TestIngredient_Rarity(t *testing.T) {
	ing := Ingredient{ID: 1, Effects: [EffectsPerIngredient]Effect{
		{ID: 1, Rarity: 1}, {ID: 2, Rarity: 2}, {ID: 3, Rarity: 3}, {ID: 4, Rarity: 10},
	}}
	if got := ing.Rarity(); got != 4 {
		t.Errorf("Expected mean rarity 4, got %v", got)
	}
}

func TestIngredient_HasEffect(t *testing.T) {
	ing := Ingredient{ID: 1, Effects: [EffectsPerIngredient]Effect{
		{ID: 1, Rarity: 1}, {ID: 2, Rarity: 2}, {ID: 3, Rarity: 3}, {ID: 4, Rarity: 4},
	}}
	if !ing.HasEffect(Effect{ID: 3}) {
		t.Error("Expected ingredient to have effect 3")
	}
	if ing.HasEffect(Effect{ID: 5}) {
		t.Error("Expected ingredient not to have effect 5")
	}
	if !ing.Equal(Ingredient{ID: 1}) || ing.Equal(Ingredient{ID: 2}) {
		t.Error("Expected ingredients to compare by id")
	}
}
