package potions

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyPool is returned when sampling from a pool with no items.
	ErrEmptyPool = errors.New("weighted pool is empty")

	// ErrEmptyCatalogue is returned when sampling a catalogue with no effects.
	ErrEmptyCatalogue = errors.New("no status effects exist to select from")

	// ErrInsufficientEffects is returned when an ingredient cannot be minted
	// because fewer than EffectsPerIngredient effects exist.
	ErrInsufficientEffects = errors.New("not enough status effects to mint an ingredient")

	// ErrUnknownIngredient is returned when knowledge is recorded for an
	// ingredient the alchemist never discovered.
	ErrUnknownIngredient = errors.New("ingredient has not been discovered")

	// ErrNotInStock is returned when combining an ingredient with zero stock.
	ErrNotInStock = errors.New("ingredient is not in stock")

	// ErrInvalidArgument is returned for malformed call arguments, such as
	// combining an ingredient with itself or foraging a negative amount.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidRarity is returned when minting an effect with a non-positive
	// or non-finite rarity.
	ErrInvalidRarity = errors.New("rarity must be a positive finite number")

	// ErrInvalidWeight is returned when adding a pool item with a non-positive
	// or non-finite weight.
	ErrInvalidWeight = errors.New("weight must be a positive finite number")

	// ErrAlchemistNotFound is returned by a Workshop for an unknown id.
	ErrAlchemistNotFound = errors.New("alchemist not found")

	// ErrAlchemistExists is returned by a Workshop when an id is taken.
	ErrAlchemistExists = errors.New("alchemist already exists")
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid catalogue: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "catalogue validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}
