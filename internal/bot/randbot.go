package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/memorymatch/internal/game"
)

// RandBot flips a uniformly random selectable card every time
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Name() string { return StrategyRandom }

// Observe is a no-op: RandBot has no memory
func (r *RandBot) Observe(game.State) {}

func (r *RandBot) Reset() {}

func (r *RandBot) Choose(view game.State) (int, bool) {
	ids := view.Selectable()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[r.rng.IntN(len(ids))], true
}
