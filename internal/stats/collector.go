package stats

import (
	"sync"

	"github.com/lox/memorymatch/internal/game"
)

// Collector subscribes to session events and records every completed game.
// It never feeds anything back into the engine.
type Collector struct {
	mu    sync.Mutex
	stats Statistics
	last  *GameResult
}

// DefaultWindow is how many recent games a Collector keeps for percentiles
const DefaultWindow = 10000

// NewCollector creates an empty collector. Totals cover every game; move
// percentiles cover the last DefaultWindow games.
func NewCollector() *Collector {
	return &Collector{stats: Statistics{Window: DefaultWindow}}
}

// Attach subscribes the collector to bus and returns the unsubscribe func
func (c *Collector) Attach(bus game.EventBus) func() {
	return bus.Subscribe(c)
}

// OnEvent implements game.EventSubscriber
func (c *Collector) OnEvent(event game.GameEvent) {
	done, ok := event.(game.SessionCompletedEvent)
	if !ok {
		return
	}
	state := done.State()
	c.Record(GameResult{
		SessionID: done.Result.SessionID,
		Pairs:     state.Pairs,
		Moves:     done.Result.Moves,
		Score:     done.Result.Score,
		Duration:  done.Result.Duration,
	})
}

// Record adds a result directly
func (c *Collector) Record(result GameResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Add(result)
	c.last = &result
}

// Last returns the most recently recorded game
func (c *Collector) Last() (GameResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return GameResult{}, false
	}
	return *c.last, true
}

// Snapshot returns a copy of the aggregate
func (c *Collector) Snapshot() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.stats
	out.Values = append([]float64(nil), c.stats.Values...)
	return out
}
