package potions

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// EffectID identifies a status effect. Zero is reserved for "no effect".
type EffectID uint32

// Effect is a status effect with a rarity. Effects are compared by ID only.
type Effect struct {
	ID     EffectID `json:"id"`
	Rarity float64  `json:"rarity"`
}

// IsZero reports whether e is the reserved placeholder effect.
func (e Effect) IsZero() bool {
	return e.ID == 0
}

// Equal reports whether e and other are the same effect.
func (e Effect) Equal(other Effect) bool {
	return e.ID == other.ID
}

// CompareEffects orders effects by ID, for use with slices.SortFunc.
func CompareEffects(a, b Effect) int {
	return cmp.Compare(a.ID, b.ID)
}

func (e Effect) String() string {
	return fmt.Sprintf("effect#%d(%.2f)", e.ID, e.Rarity)
}

// Catalogue is the registry of every minted effect. Effects are sampled with
// weight 1/rarity, so rare effects come up less often. The catalogue also
// assigns ingredient ids.
type Catalogue struct {
	mu               sync.Mutex
	rng              *rand.Rand
	pool             *Pool[Effect]
	effects          []Effect
	nextEffectID     EffectID
	nextIngredientID IngredientID
	logger           Logger
}

// NewCatalogue creates an empty catalogue drawing from rng. A nil rng is
// replaced with a time-seeded generator.
func NewCatalogue(rng *rand.Rand) *Catalogue {
	rng = randOrDefault(rng)
	return &Catalogue{
		rng:              rng,
		pool:             NewPool[Effect](rng),
		effects:          make([]Effect, 0),
		nextEffectID:     1,
		nextIngredientID: 1,
		logger:           NewNoOpLogger(),
	}
}

// SetLogger sets the logger used by the catalogue.
func (c *Catalogue) SetLogger(logger Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = loggerOrNoOp(logger)
}

func validRarity(rarity float64) bool {
	return rarity > 0 && !math.IsInf(rarity, 0) && !math.IsInf(1/rarity, 0)
}

// Mint creates a new effect with the next unique id.
func (c *Catalogue) Mint(rarity float64) (Effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mintLocked(rarity)
}

func (c *Catalogue) mintLocked(rarity float64) (Effect, error) {
	if !validRarity(rarity) {
		return Effect{}, fmt.Errorf("%w: got %v", ErrInvalidRarity, rarity)
	}
	e := Effect{ID: c.nextEffectID, Rarity: rarity}
	if err := c.pool.Add(e, 1/rarity); err != nil {
		return Effect{}, err
	}
	c.nextEffectID++
	c.effects = append(c.effects, e)
	c.logger.Debugf("effect minted: id=%d rarity=%v", e.ID, e.Rarity)
	return e, nil
}

// MintAll mints one effect per rarity, in order. Every rarity is validated
// before anything is minted, so a bad value leaves the catalogue unchanged.
func (c *Catalogue) MintAll(rarities []float64) ([]Effect, error) {
	verr := &ValidationError{}
	for i, r := range rarities {
		if !validRarity(r) {
			verr.Add(fmt.Sprintf("rarity at index %d must be a positive finite number, got %v", i, r))
		}
	}
	if verr.HasIssues() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRarity, verr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Effect, 0, len(rarities))
	for _, r := range rarities {
		e, err := c.mintLocked(r)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	c.logger.Infof("catalogue loaded: minted=%d total=%d", len(out), len(c.effects))
	return out, nil
}

// SampleExisting returns an existing effect chosen by weight without
// removing it.
func (c *Catalogue) SampleExisting() (Effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool.Empty() {
		return Effect{}, ErrEmptyCatalogue
	}
	return c.pool.Sample()
}

// Count returns the number of minted effects.
func (c *Catalogue) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.effects)
}

// Effects returns every minted effect in id order.
func (c *Catalogue) Effects() []Effect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Effect(nil), c.effects...)
}

// Reset removes every effect and restarts id assignment. Intended for test
// isolation.
func (c *Catalogue) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pool = NewPool[Effect](c.rng)
	c.effects = make([]Effect, 0)
	c.nextEffectID = 1
	c.nextIngredientID = 1
}
