package potions

import "fmt"

// Finding records that an ingredient was observed to exhibit an effect.
type Finding struct {
	Ingredient Ingredient `json:"ingredient"`
	Effect     Effect     `json:"effect"`
}

// Discovery is what a single combination taught the alchemist, along with the
// value of the brewed potion. A zero PotionValue means the potion was worthless.
type Discovery struct {
	Findings    []Finding `json:"findings"`
	PotionValue float64   `json:"potion_value"`
}

func (d *Discovery) addFinding(ingredient Ingredient, effect Effect) {
	d.Findings = append(d.Findings, Finding{Ingredient: ingredient, Effect: effect})
}

// FindingsCount returns the number of findings.
func (d Discovery) FindingsCount() int {
	return len(d.Findings)
}

// Finding returns the finding at index.
func (d Discovery) Finding(index int) (Finding, error) {
	if index < 0 || index >= len(d.Findings) {
		return Finding{}, fmt.Errorf("%w: finding index %d out of range [0,%d)",
			ErrInvalidArgument, index, len(d.Findings))
	}
	return d.Findings[index], nil
}

// Worthless reports whether the combination produced no matching effect.
func (d Discovery) Worthless() bool {
	return d.PotionValue == 0
}
