package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/symbols"
)

// MemoryBot never forgets a card it has seen. It completes known pairs
// first and otherwise explores cards it has not seen yet.
type MemoryBot struct {
	rng    *rand.Rand
	logger *log.Logger
	seen   map[int]symbols.Symbol
}

// NewMemoryBot creates a new MemoryBot instance
func NewMemoryBot(rng *rand.Rand, logger *log.Logger) *MemoryBot {
	return &MemoryBot{rng: rng, logger: logger, seen: make(map[int]symbols.Symbol)}
}

func (m *MemoryBot) Name() string { return StrategyMemory }

func (m *MemoryBot) Reset() {
	clear(m.seen)
}

// Observe records every face-up symbol and forgets matched cards
func (m *MemoryBot) Observe(view game.State) {
	for _, c := range view.Cards {
		switch {
		case c.Matched:
			delete(m.seen, c.ID)
		case c.FaceUp && c.Symbol != "":
			m.seen[c.ID] = c.Symbol
		}
	}
}

func (m *MemoryBot) Choose(view game.State) (int, bool) {
	m.Observe(view)

	selectable := view.Selectable()
	if len(selectable) == 0 {
		return 0, false
	}

	if view.FirstSelection != nil {
		first := *view.FirstSelection
		if partner, ok := m.partnerOf(first, selectable); ok {
			m.logger.Debug("Completing known pair", "first", first, "second", partner)
			return partner, true
		}
		return m.explore(selectable), true
	}

	if id, ok := m.knownPair(selectable); ok {
		return id, true
	}
	return m.explore(selectable), true
}

func (m *MemoryBot) partnerOf(id int, selectable []int) (int, bool) {
	sym, ok := m.seen[id]
	if !ok {
		return 0, false
	}
	for _, other := range selectable {
		if other != id && m.seen[other] == sym {
			return other, true
		}
	}
	return 0, false
}

func (m *MemoryBot) knownPair(selectable []int) (int, bool) {
	for _, id := range selectable {
		if _, ok := m.partnerOf(id, selectable); ok {
			return id, true
		}
	}
	return 0, false
}

// explore prefers cards that have never been seen
func (m *MemoryBot) explore(selectable []int) int {
	unseen := make([]int, 0, len(selectable))
	for _, id := range selectable {
		if _, ok := m.seen[id]; !ok {
			unseen = append(unseen, id)
		}
	}
	if len(unseen) > 0 {
		return unseen[m.rng.IntN(len(unseen))]
	}
	return selectable[m.rng.IntN(len(selectable))]
}
