// Package report prints alchemist results for people.
package report

import (
	"io"

	"github.com/daniacca/potions/internal/potions"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Printer writes reports with locale-aware number formatting.
type Printer struct {
	p *message.Printer
}

// NewPrinter creates a printer for the given locale tag. Unparseable tags
// fall back to English.
func NewPrinter(locale string) *Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Printer{p: message.NewPrinter(tag)}
}

// Print writes the titled summary of r to w.
func (pr *Printer) Print(w io.Writer, title string, r potions.Report) error {
	_, err := pr.p.Fprintf(w,
		"%s\n"+
			"Inventory Value: %.2f\n"+
			"Worthless Potions: %d\n"+
			"Varieties Remaining: %d\n"+
			"Ingredients Remaining: %d\n"+
			"Known Effects: %d\n",
		title,
		r.InventoryValue,
		r.WorthlessPotionCount,
		r.VarietiesInStock,
		r.TotalIngredientsRemaining,
		r.KnownEffects,
	)
	return err
}

// PrintComparison writes each report in turn, followed by the title of the
// most valuable one.
func (pr *Printer) PrintComparison(w io.Writer, titles []string, reports []potions.Report) error {
	best := -1
	for i, r := range reports {
		if err := pr.Print(w, titles[i], r); err != nil {
			return err
		}
		if best < 0 || r.InventoryValue > reports[best].InventoryValue {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	_, err := pr.p.Fprintf(w, "Best: %s (%.2f)\n", titles[best], reports[best].InventoryValue)
	return err
}
