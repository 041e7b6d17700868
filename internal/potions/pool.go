package potions

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Pool holds items with relative weights and returns them at random with a
// probability proportional to their weight. Sampling walks the cumulative
// weights in storage order, so Sample and Draw are O(n).
//
// A Pool is not safe for concurrent use.
type Pool[T any] struct {
	items   []T
	weights []float64
	total   float64
	rng     *rand.Rand
}

// NewPool creates an empty pool drawing from rng. A nil rng is replaced with a
// time-seeded generator.
func NewPool[T any](rng *rand.Rand) *Pool[T] {
	return &Pool[T]{rng: randOrDefault(rng)}
}

// Len returns the number of stored items.
func (p *Pool[T]) Len() int {
	return len(p.items)
}

// Empty reports whether the pool holds no items.
func (p *Pool[T]) Empty() bool {
	return len(p.items) == 0
}

// TotalWeight returns the sum of all stored weights.
func (p *Pool[T]) TotalWeight() float64 {
	return p.total
}

// Add stores item with the given weight.
func (p *Pool[T]) Add(item T, weight float64) error {
	if !(weight > 0) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidWeight, weight)
	}
	p.items = append(p.items, item)
	p.weights = append(p.weights, weight)
	p.total += weight
	return nil
}

// Sample returns a stored item without removing it.
func (p *Pool[T]) Sample() (T, error) {
	idx, err := p.pick()
	if err != nil {
		var zero T
		return zero, err
	}
	return p.items[idx], nil
}

// Draw returns a stored item and removes it from the pool. The last item takes
// the removed item's slot.
func (p *Pool[T]) Draw() (T, error) {
	idx, err := p.pick()
	if err != nil {
		var zero T
		return zero, err
	}
	item := p.items[idx]
	weight := p.weights[idx]

	last := len(p.items) - 1
	p.items[idx] = p.items[last]
	p.weights[idx] = p.weights[last]
	var zero T
	p.items[last] = zero
	p.items = p.items[:last]
	p.weights = p.weights[:last]

	if len(p.items) == 0 {
		p.total = 0
	} else {
		p.total -= weight
	}
	return item, nil
}

// Clone returns an independent copy of the pool sharing the same generator.
func (p *Pool[T]) Clone() *Pool[T] {
	return &Pool[T]{
		items:   append([]T(nil), p.items...),
		weights: append([]float64(nil), p.weights...),
		total:   p.total,
		rng:     p.rng,
	}
}

// pick selects the index of the first item whose cumulative weight exceeds a
// uniform sample in [0, total). Accumulated rounding can leave the sample past
// the final cumulative weight, in which case the last item is chosen.
func (p *Pool[T]) pick() (int, error) {
	if len(p.items) == 0 {
		return 0, ErrEmptyPool
	}
	sample := p.rng.Float64() * p.total
	cumulative := 0.0
	for i, w := range p.weights {
		cumulative += w
		if sample < cumulative {
			return i, nil
		}
	}
	return len(p.items) - 1, nil
}
