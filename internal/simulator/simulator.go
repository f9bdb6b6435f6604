// Package simulator plays batches of seeded memory games with bots and
// aggregates the move counts.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memorymatch/internal/bot"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/internal/stats"
	"github.com/lox/memorymatch/symbols"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Games    int
	Pairs    int
	Strategy string
	Seed     int64
	Workers  int
	Timeout  time.Duration
	Pool     symbols.Pool
	Logger   *log.Logger

	// SessionOptions are applied to every session after the simulator's own
	// options, so a caller may override the match reward.
	SessionOptions []game.Option

	// Progress, if set, is called after each finished game. It may be
	// called from several goroutines.
	Progress func(done, total int)
}

// Simulator runs memory game simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Pool == nil {
		config.Pool = symbols.Default()
	}
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Strategy == "" {
		config.Strategy = bot.StrategyMemory
	}
	return &Simulator{config: config}
}

// Run plays every game and returns the aggregate. Game i is dealt and
// played with seed Seed+i, so results do not depend on the worker count.
func (s *Simulator) Run(ctx context.Context) (*stats.Statistics, error) {
	cfg := s.config
	if cfg.Games <= 0 {
		return nil, errors.New("games must be positive")
	}
	if cfg.Pairs < game.MinPairs || cfg.Pairs > cfg.Pool.Len() {
		return nil, fmt.Errorf("%w: pairs must be between %d and %d, got %d",
			game.ErrInvalidConfiguration, game.MinPairs, cfg.Pool.Len(), cfg.Pairs)
	}
	if _, err := bot.New(cfg.Strategy, randutil.New(cfg.Seed), cfg.Logger); err != nil {
		return nil, err
	}

	logger := cfg.Logger.WithPrefix("simulator")
	logger.Info("Starting simulation", "games", cfg.Games, "pairs", cfg.Pairs, "strategy", cfg.Strategy, "workers", cfg.Workers, "seed", cfg.Seed)

	results := make([]stats.GameResult, cfg.Games)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Games {
		g.Go(func() error {
			result, err := s.playGameWithTimeout(ctx, cfg.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result
			if cfg.Progress != nil {
				cfg.Progress(int(done.Add(1)), cfg.Games)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Aggregate in game order so that the output is reproducible
	out := &stats.Statistics{}
	for _, r := range results {
		out.Add(r)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	logger.Info("Simulation complete", "games", out.Games, "meanMoves", out.Mean(), "perfect", out.PerfectGames)
	return out, nil
}

// playGameWithTimeout runs a single game with timeout protection
func (s *Simulator) playGameWithTimeout(ctx context.Context, seed int64) (stats.GameResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.playGame(ctx, seed)
	if errors.Is(err, context.DeadlineExceeded) {
		return result, fmt.Errorf("game timed out after %v (seed: %d): %w", s.config.Timeout, seed, err)
	}
	return result, err
}

// playGame drives one session to completion with a fresh bot
func (s *Simulator) playGame(ctx context.Context, seed int64) (stats.GameResult, error) {
	cfg := s.config
	rng := randutil.New(seed)

	strategy, err := bot.New(cfg.Strategy, rng, cfg.Logger)
	if err != nil {
		return stats.GameResult{}, err
	}

	opts := append([]game.Option{
		game.WithLogger(cfg.Logger),
		game.WithMismatchDelay(0),
	}, cfg.SessionOptions...)
	session := game.NewSession(quartz.NewReal(), opts...)
	defer session.Close()

	// Mismatch, hide and completion notifications can be delivered from the
	// timer goroutine, so they are handed over in order through a channel.
	// At most two are outstanding at any time.
	events := make(chan game.GameEvent, 4)
	unsubscribe := session.Events().Subscribe(game.EventSubscriberFunc(func(ev game.GameEvent) {
		switch ev.EventType() {
		case game.EventTypePairMismatched, game.EventTypeCardsHidden, game.EventTypeSessionCompleted:
			select {
			case events <- ev:
			default:
			}
		}
	}))
	defer unsubscribe()

	next := func(want game.EventType) (game.GameEvent, error) {
		for {
			select {
			case ev := <-events:
				if ev.EventType() == want {
					return ev, nil
				}
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if err := session.NewGame(cfg.Pool, cfg.Pairs, rng); err != nil {
		return stats.GameResult{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats.GameResult{}, err
		}

		view := session.State().Masked()
		id, ok := strategy.Choose(view)
		if !ok {
			return stats.GameResult{}, fmt.Errorf("strategy %s found no selectable card in phase %s", strategy.Name(), view.Phase)
		}

		outcome, err := session.SelectCard(id)
		if err != nil {
			return stats.GameResult{}, err
		}

		switch outcome {
		case game.OutcomeIgnored:
			return stats.GameResult{}, fmt.Errorf("strategy %s selected unselectable card %d", strategy.Name(), id)

		case game.OutcomeMismatched:
			// With no delay the pair may already be hidden again, so the bot
			// looks at the snapshot carried by the event instead.
			ev, err := next(game.EventTypePairMismatched)
			if err != nil {
				return stats.GameResult{}, err
			}
			strategy.Observe(ev.State().Masked())
			if _, err := next(game.EventTypeCardsHidden); err != nil {
				return stats.GameResult{}, err
			}

		case game.OutcomeCompleted:
			ev, err := next(game.EventTypeSessionCompleted)
			if err != nil {
				return stats.GameResult{}, err
			}
			result := ev.(game.SessionCompletedEvent).Result
			return stats.GameResult{
				SessionID: result.SessionID,
				Seed:      seed,
				Pairs:     cfg.Pairs,
				Moves:     result.Moves,
				Score:     result.Score,
				Duration:  result.Duration,
			}, nil

		default:
			strategy.Observe(session.State().Masked())
		}
	}
}
