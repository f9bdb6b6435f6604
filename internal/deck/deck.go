// Package deck builds shuffled, paired memory decks from a symbol pool.
package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/memorymatch/symbols"
)

// ErrInsufficientSymbols is returned when the pool cannot supply the
// requested number of distinct pairs
var ErrInsufficientSymbols = errors.New("insufficient symbols")

// Generate builds a deck of 2*pairCount face-down cards. pairCount distinct
// symbols are sampled from pool without replacement, each is duplicated, and
// the result is shuffled with Fisher-Yates. Card IDs equal final positions.
// The caller's pool is never reordered.
func Generate(pool symbols.Pool, pairCount int, rng *rand.Rand) ([]Card, error) {
	if rng == nil {
		return nil, errors.New("rng is required for deck generation")
	}
	if pairCount <= 0 {
		return nil, fmt.Errorf("%w: pair count must be positive, got %d", ErrInsufficientSymbols, pairCount)
	}
	if pairCount > len(pool) {
		return nil, fmt.Errorf("%w: %d pairs requested from a pool of %d", ErrInsufficientSymbols, pairCount, len(pool))
	}
	if err := pool.Validate(); err != nil {
		return nil, err
	}

	chosen := Sample(pool, pairCount, rng)

	faces := make([]symbols.Symbol, 0, 2*pairCount)
	faces = append(faces, chosen...)
	faces = append(faces, chosen...)
	Shuffle(faces, rng)

	cards := make([]Card, len(faces))
	for i, sym := range faces {
		cards[i] = NewCard(i, sym)
	}
	return cards, nil
}

// Sample returns n distinct symbols chosen uniformly from pool using a
// partial Fisher-Yates shuffle over a copy. n must not exceed len(pool).
func Sample(pool symbols.Pool, n int, rng *rand.Rand) []symbols.Symbol {
	work := pool.Clone()
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:n]
}

// Shuffle permutes s uniformly in place using Fisher-Yates
func Shuffle[T any](s []T, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
