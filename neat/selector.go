package neat

import (
	"errors"
	"math/rand"
)

// ErrEmptySelector is returned when drawing from a selector with no entries.
var ErrEmptySelector = errors.New("weighted selector is empty")

type weightedEntry[T any] struct {
	value T
	score float64
}

// WeightedSelector draws values with probability proportional to their score.
// Negative scores count as zero. If every score is zero the draw is uniform.
type WeightedSelector[T any] struct {
	entries []weightedEntry[T]
	total   float64
}

// NewWeightedSelector creates an empty selector.
func NewWeightedSelector[T any]() *WeightedSelector[T] {
	return &WeightedSelector[T]{}
}

// Add registers value with the given score.
func (ws *WeightedSelector[T]) Add(value T, score float64) {
	if score < 0 {
		score = 0
	}
	ws.entries = append(ws.entries, weightedEntry[T]{value: value, score: score})
	ws.total += score
}

// Len returns the number of registered values.
func (ws *WeightedSelector[T]) Len() int {
	return len(ws.entries)
}

// Total returns the sum of all scores.
func (ws *WeightedSelector[T]) Total() float64 {
	return ws.total
}

// Random draws one value.
func (ws *WeightedSelector[T]) Random(rng *rand.Rand) (T, error) {
	var zero T
	if len(ws.entries) == 0 {
		return zero, ErrEmptySelector
	}
	if ws.total <= 0 {
		return ws.entries[rng.Intn(len(ws.entries))].value, nil
	}

	target := rng.Float64() * ws.total
	acc := 0.0
	for _, e := range ws.entries {
		acc += e.score
		if target < acc {
			return e.value, nil
		}
	}
	// Rounding can leave target == total; fall back to the last positive entry.
	for i := len(ws.entries) - 1; i >= 0; i-- {
		if ws.entries[i].score > 0 {
			return ws.entries[i].value, nil
		}
	}
	return ws.entries[len(ws.entries)-1].value, nil
}

// Clear removes every entry.
func (ws *WeightedSelector[T]) Clear() {
	ws.entries = nil
	ws.total = 0
}
