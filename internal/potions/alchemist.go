package potions

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

// AlchemistID identifies an alchemist within a Workshop.
type AlchemistID string

// Alchemist holds a stock of ingredients, what it has learned about their
// effects, and the running results of its brewing. Every exported method
// holds the alchemist's lock for its whole duration.
//
// An ingredient present in stock with a count of zero is known but unstocked.
// Ingredients only ever move forward: unknown, known, stocked.
type Alchemist struct {
	mu        sync.Mutex
	id        AlchemistID
	catalogue *Catalogue
	rng       *rand.Rand
	logger    Logger

	ingredients map[IngredientID]Ingredient
	stock       map[IngredientID]int
	effects     map[EffectID]Effect
	knowledge   map[EffectID][]Ingredient

	inventoryValue            float64
	worthlessPotionCount      int
	totalIngredientsRemaining int

	notifierMgr *NotificationManager
	notifierIDs []string
	sequence    int64
}

// NewAlchemist creates an alchemist with no stock or knowledge. Ingredients
// are minted from catalogue; rng drives foraging and a nil rng is replaced
// with a time-seeded generator.
func NewAlchemist(catalogue *Catalogue, rng *rand.Rand) *Alchemist {
	return &Alchemist{
		catalogue:   catalogue,
		rng:         randOrDefault(rng),
		logger:      NewNoOpLogger(),
		ingredients: make(map[IngredientID]Ingredient),
		stock:       make(map[IngredientID]int),
		effects:     make(map[EffectID]Effect),
		knowledge:   make(map[EffectID][]Ingredient),
	}
}

// SetID sets the id reported in events and reports.
func (a *Alchemist) SetID(id AlchemistID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.id = id
}

// ID returns the alchemist's id.
func (a *Alchemist) ID() AlchemistID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.id
}

// SetLogger sets the logger used by the alchemist.
func (a *Alchemist) SetLogger(logger Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger = loggerOrNoOp(logger)
}

// SetNotificationManager routes a DiscoveryEvent to the given notifiers after
// every combination. A nil manager disables notifications.
func (a *Alchemist) SetNotificationManager(mgr *NotificationManager, notifierIDs ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notifierMgr = mgr
	a.notifierIDs = append([]string(nil), notifierIDs...)
}

// InventoryValue returns the combined value of every brewed potion.
func (a *Alchemist) InventoryValue() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inventoryValue
}

// WorthlessPotionCount returns the number of combinations with no match.
func (a *Alchemist) WorthlessPotionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.worthlessPotionCount
}

// TotalIngredientsRemaining returns the number of ingredients left in stock.
func (a *Alchemist) TotalIngredientsRemaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalIngredientsRemaining
}

// DiscoverNewIngredient mints a new ingredient, records it with zero stock and
// tastes it, learning its first effect.
func (a *Alchemist) DiscoverNewIngredient() (Ingredient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ing, err := a.catalogue.MintIngredient()
	if err != nil {
		return Ingredient{}, fmt.Errorf("discovering ingredient: %w", err)
	}
	a.ingredients[ing.ID] = ing
	a.stock[ing.ID] = 0

	if err := a.learnEffect(ing, ing.Effects[0]); err != nil {
		return Ingredient{}, err
	}
	a.logger.Debugf("ingredient discovered: alchemist=%s ingredient=%d first_effect=%d", a.id, ing.ID, ing.Effects[0].ID)
	return ing, nil
}

// Forage adds count ingredients to stock. Each one is drawn independently
// from every known ingredient, weighted by 1/rarity so rare ingredients turn
// up less often.
func (a *Alchemist) Forage(count int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if count < 0 {
		return fmt.Errorf("%w: forage count must be non-negative, got %d", ErrInvalidArgument, count)
	}

	garden := NewPool[Ingredient](a.rng)
	for _, ing := range a.knownIngredientsLocked() {
		if err := garden.Add(ing, 1/ing.Rarity()); err != nil {
			return fmt.Errorf("planting %s: %w", ing, err)
		}
	}
	if garden.Empty() {
		return fmt.Errorf("foraging: %w", ErrEmptyPool)
	}

	for range count {
		ing, err := garden.Sample()
		if err != nil {
			return fmt.Errorf("foraging: %w", err)
		}
		a.stock[ing.ID]++
	}
	a.totalIngredientsRemaining += count

	a.logger.Debugf("foraged: alchemist=%s count=%d remaining=%d", a.id, count, a.totalIngredientsRemaining)
	return nil
}

// KnownIngredients returns every discovered ingredient, stocked or not, in id
// order.
func (a *Alchemist) KnownIngredients() []Ingredient {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.knownIngredientsLocked()
}

func (a *Alchemist) knownIngredientsLocked() []Ingredient {
	out := make([]Ingredient, 0, len(a.ingredients))
	for _, ing := range a.ingredients {
		out = append(out, ing)
	}
	slices.SortFunc(out, CompareIngredients)
	return out
}

// LookupIngredient returns the known ingredient with the given id.
func (a *Alchemist) LookupIngredient(id IngredientID) (Ingredient, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ing, ok := a.ingredients[id]
	return ing, ok
}

// HasIngredient reports whether at least one of ingredient is in stock.
func (a *Alchemist) HasIngredient(ingredient Ingredient) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stock[ingredient.ID] > 0
}

// CountOfIngredient returns the stock count of ingredient, 0 if unknown.
func (a *Alchemist) CountOfIngredient(ingredient Ingredient) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stock[ingredient.ID]
}

// VarietiesInStock returns how many distinct ingredients have stock left.
func (a *Alchemist) VarietiesInStock() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.varietiesInStockLocked()
}

func (a *Alchemist) varietiesInStockLocked() int {
	n := 0
	for _, count := range a.stock {
		if count > 0 {
			n++
		}
	}
	return n
}

// KnownEffects returns every effect the alchemist has observed, in id order.
func (a *Alchemist) KnownEffects() []Effect {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Effect, 0, len(a.effects))
	for _, e := range a.effects {
		out = append(out, e)
	}
	slices.SortFunc(out, CompareEffects)
	return out
}

// IngredientsWithEffect returns the ingredients known to exhibit effect, in
// the order they were learned. Unknown effects yield an empty slice.
func (a *Alchemist) IngredientsWithEffect(effect Effect) []Ingredient {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Ingredient{}, a.knowledge[effect.ID]...)
}

// IngredientHasEffect reports whether ingredient is known to exhibit effect.
func (a *Alchemist) IngredientHasEffect(ingredient Ingredient, effect Effect) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.knowsLocked(ingredient, effect)
}

func (a *Alchemist) knowsLocked(ingredient Ingredient, effect Effect) bool {
	return slices.ContainsFunc(a.knowledge[effect.ID], ingredient.Equal)
}

// RemainingStockWithEffect returns the total stock of ingredients known to
// exhibit effect.
func (a *Alchemist) RemainingStockWithEffect(effect Effect) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, ing := range a.knowledge[effect.ID] {
		total += a.stock[ing.ID]
	}
	return total
}

// learnEffect notes that ingredient exhibits effect. Discovery, not stocking,
// makes an ingredient known.
func (a *Alchemist) learnEffect(ingredient Ingredient, effect Effect) error {
	if _, ok := a.stock[ingredient.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIngredient, ingredient)
	}
	if a.knowsLocked(ingredient, effect) {
		return nil
	}
	a.effects[effect.ID] = effect
	a.knowledge[effect.ID] = append(a.knowledge[effect.ID], ingredient)
	return nil
}

// Combine brews a potion from one each of i1 and i2. Both are consumed
// whether or not they share an effect. Every shared effect is learned for
// both ingredients; the rarest one sets the potion's value.
func (a *Alchemist) Combine(i1, i2 Ingredient) (Discovery, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stock[i1.ID] <= 0 || a.stock[i2.ID] <= 0 {
		return Discovery{}, fmt.Errorf("%w: cannot combine %s and %s", ErrNotInStock, i1, i2)
	}
	if i1.Equal(i2) {
		return Discovery{}, fmt.Errorf("%w: cannot combine %s with itself", ErrInvalidArgument, i1)
	}

	i1, i2 = a.ingredients[i1.ID], a.ingredients[i2.ID]
	a.stock[i1.ID]--
	a.stock[i2.ID]--
	a.totalIngredientsRemaining -= 2

	// Both ingredients are in stock, hence known, so learnEffect cannot fail
	// from here on.
	var discovery Discovery
	var rarest Effect
	for _, e1 := range i1.Effects {
		for _, e2 := range i2.Effects {
			if !e1.Equal(e2) {
				continue
			}
			if rarest.IsZero() || e1.Rarity > rarest.Rarity {
				rarest = e1
			}
			if !a.knowsLocked(i1, e1) {
				_ = a.learnEffect(i1, e1)
				discovery.addFinding(i1, e1)
			}
			if !a.knowsLocked(i2, e2) {
				_ = a.learnEffect(i2, e2)
				discovery.addFinding(i2, e2)
			}
		}
	}

	if rarest.IsZero() {
		a.worthlessPotionCount++
	} else {
		discovery.PotionValue = rarest.Rarity
		a.inventoryValue += discovery.PotionValue
	}

	a.logger.Debugf("combined: alchemist=%s first=%d second=%d findings=%d value=%v",
		a.id, i1.ID, i2.ID, discovery.FindingsCount(), discovery.PotionValue)
	a.notify(i1, i2, discovery)
	return discovery, nil
}

func (a *Alchemist) notify(i1, i2 Ingredient, discovery Discovery) {
	if a.notifierMgr == nil || len(a.notifierIDs) == 0 {
		return
	}
	a.sequence++
	a.notifierMgr.Enqueue(DiscoveryEvent{
		AlchemistID: a.id,
		Sequence:    a.sequence,
		Timestamp:   time.Now().Unix(),
		Ingredients: [2]IngredientID{i1.ID, i2.ID},
		Discovery:   discovery,
		Report:      a.reportLocked(),
	}, a.notifierIDs)
}

// Clone returns a deep copy of the alchemist's stock, knowledge and results.
// The copy shares the catalogue and notification settings but forages from
// its own generator, derived from the original's.
func (a *Alchemist) Clone() *Alchemist {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := NewAlchemist(a.catalogue, deriveRand(a.rng))
	c.id = a.id
	c.logger = a.logger
	c.notifierMgr = a.notifierMgr
	c.notifierIDs = append([]string(nil), a.notifierIDs...)
	for id, ing := range a.ingredients {
		c.ingredients[id] = ing
	}
	for id, n := range a.stock {
		c.stock[id] = n
	}
	for id, e := range a.effects {
		c.effects[id] = e
	}
	for id, ings := range a.knowledge {
		c.knowledge[id] = append([]Ingredient(nil), ings...)
	}
	c.inventoryValue = a.inventoryValue
	c.worthlessPotionCount = a.worthlessPotionCount
	c.totalIngredientsRemaining = a.totalIngredientsRemaining
	return c
}
