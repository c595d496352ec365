package core

import (
	"errors"
	"fmt"
	"math/rand"
)

// TryAttempts is the retry budget of TryTo.
const TryAttempts = 1000

// ErrTimeout is returned by TryTo when the predicate never succeeds.
var ErrTimeout = errors.New("timeout")

// TryTo calls fn until it returns true, at most TryAttempts times.
// Exhausting the budget returns an error wrapping ErrTimeout.
func TryTo(description string, fn func() bool) error {
	for i := 0; i < TryAttempts; i++ {
		if fn() {
			return nil
		}
	}
	return fmt.Errorf("%w while trying to %s", ErrTimeout, description)
}

// RandomRange returns an integer in [lo, hi] inclusive.
func RandomRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Choose returns a random element of items. items must not be empty.
func Choose[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// Shuffle permutes items in place.
func Shuffle[T any](rng *rand.Rand, items []T) {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
