// Package bot provides simulated players for the memory game. Bots only see
// masked snapshots, so they learn symbols the same way a person does: by
// flipping cards.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/lox/memorymatch/internal/game"
)

// Strategy picks the next card to flip
type Strategy interface {
	Name() string
	// Observe lets the strategy see a snapshot, e.g. a mismatch on display
	Observe(view game.State)
	// Choose returns the card to select, or false if nothing is selectable
	Choose(view game.State) (int, bool)
	// Reset forgets everything learned about the previous board
	Reset()
}

// Strategy names accepted by New
const (
	StrategyRandom = "random"
	StrategyMemory = "memory"
)

var factories = map[string]func(*rand.Rand, *log.Logger) Strategy{
	StrategyRandom: func(rng *rand.Rand, logger *log.Logger) Strategy { return NewRandBot(rng, logger) },
	StrategyMemory: func(rng *rand.Rand, logger *log.Logger) Strategy { return NewMemoryBot(rng, logger) },
}

// Names returns the registered strategy names in sorted order
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a strategy by name
func New(name string, rng *rand.Rand, logger *log.Logger) (Strategy, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, Names())
	}
	return factory(rng, logger), nil
}
