package potions

import (
	"encoding/json"
	"fmt"
)

// Report is a point-in-time capture of an alchemist's results.
type Report struct {
	AlchemistID               AlchemistID `json:"alchemist_id,omitempty"`
	InventoryValue            float64     `json:"inventory_value"`
	WorthlessPotionCount      int         `json:"worthless_potion_count"`
	VarietiesInStock          int         `json:"varieties_in_stock"`
	TotalIngredientsRemaining int         `json:"total_ingredients_remaining"`
	KnownIngredients          int         `json:"known_ingredients"`
	KnownEffects              int         `json:"known_effects"`
}

// Report returns the alchemist's current results.
func (a *Alchemist) Report() Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reportLocked()
}

func (a *Alchemist) reportLocked() Report {
	return Report{
		AlchemistID:               a.id,
		InventoryValue:            a.inventoryValue,
		WorthlessPotionCount:      a.worthlessPotionCount,
		VarietiesInStock:          a.varietiesInStockLocked(),
		TotalIngredientsRemaining: a.totalIngredientsRemaining,
		KnownIngredients:          len(a.ingredients),
		KnownEffects:              len(a.effects),
	}
}

// EncodeReportJSON encodes a report to JSON format.
func EncodeReportJSON(report Report) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}
