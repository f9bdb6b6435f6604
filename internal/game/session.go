package game

import (
	"fmt"
	rand "math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/gameid"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/symbols"
)

// Session is the controller for one player's memory game. It is safe for
// concurrent use, although selections are expected to come from a single
// input source.
type Session struct {
	clock  quartz.Clock
	base   *log.Logger
	logger *log.Logger
	bus    EventBus
	ids    *gameid.Generator
	reward int
	delay  time.Duration

	mu          sync.Mutex
	board       *board
	id          string
	generation  uint64
	attempt     uint64
	timer       *quartz.Timer
	startedAt   time.Time
	completedAt time.Time
	observers   []func(Result)
	closed      bool

	// Notifications are queued under mu and delivered by a single drainer
	// outside it, preserving transition order.
	queue    []GameEvent
	draining bool
}

// NewSession creates an idle session. Call NewGame to deal a board.
func NewSession(clock quartz.Clock, opts ...Option) *Session {
	if clock == nil {
		clock = quartz.NewReal()
	}

	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.bus == nil {
		cfg.bus = NewEventBus()
	}
	if cfg.ids == nil {
		cfg.ids = gameid.NewGenerator(nil)
	}

	logger := cfg.logger.WithPrefix("session")
	return &Session{
		clock:  clock,
		base:   logger,
		logger: logger,
		bus:    cfg.bus,
		ids:    cfg.ids,
		reward: cfg.reward,
		delay:  cfg.delay,
	}
}

// Events returns the bus that session events are published on
func (s *Session) Events() EventBus {
	return s.bus
}

// MatchReward returns the score added per matched pair
func (s *Session) MatchReward() int {
	return s.reward
}

// MismatchDelay returns how long a mismatched pair stays face up
func (s *Session) MismatchDelay() time.Duration {
	return s.delay
}

// OnComplete registers an observer that is called exactly once per game,
// when its last pair is matched. Observers stay registered across games.
func (s *Session) OnComplete(fn func(Result)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// NewGame deals a fresh board of pairCount pairs drawn from pool, replacing
// any game in progress. A nil rng uses a time-seeded source. On error the
// current game, if any, is left untouched.
func (s *Session) NewGame(pool symbols.Pool, pairCount int, rng *rand.Rand) error {
	if rng == nil {
		rng, _ = randutil.FromSeed(nil)
	}

	if pairCount < MinPairs {
		return fmt.Errorf("%w: at least %d pairs required, got %d", ErrInvalidConfiguration, MinPairs, pairCount)
	}
	cards, err := deck.Generate(pool, pairCount, rng)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.stopTimerLocked()
	s.generation++
	s.attempt = 0
	s.board = newBoard(cards, s.reward)
	s.id = s.ids.Generate()
	s.startedAt = s.clock.Now()
	s.completedAt = time.Time{}
	s.logger = s.base.With("session", s.id)

	s.logger.Info("New game", "pairs", pairCount, "reward", s.reward, "mismatchDelay", s.delay)
	s.emitLocked(NewSessionStartedEvent(s.snapshotLocked(), s.startedAt))
	return nil
}

// SelectCard flips the card with the given id and advances the game. Cards
// that cannot be flipped right now yield OutcomeIgnored and a nil error.
func (s *Session) SelectCard(id int) (Outcome, error) {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return OutcomeIgnored, ErrSessionClosed
	}
	if s.board == nil {
		return OutcomeIgnored, fmt.Errorf("%w: no game in progress", ErrInvalidSelection)
	}
	if id < 0 || id >= len(s.board.cards) {
		return OutcomeIgnored, fmt.Errorf("%w: card %d out of range [0, %d)", ErrInvalidSelection, id, len(s.board.cards))
	}

	first := s.board.first
	outcome := s.board.selectCard(id)
	now := s.clock.Now()

	switch outcome {
	case OutcomeIgnored:
		s.logger.Debug("Ignored selection", "card", id, "phase", s.board.phase)

	case OutcomeRevealed:
		s.logger.Debug("Card revealed", "card", id)
		s.emitLocked(NewCardRevealedEvent(s.snapshotLocked(), id, now))

	case OutcomeMatched:
		s.logger.Debug("Pair matched", "first", first, "second", id, "moves", s.board.moves, "score", s.board.score)
		s.emitLocked(NewPairMatchedEvent(s.snapshotLocked(), first, id, now))

	case OutcomeCompleted:
		s.completedAt = now
		state := s.snapshotLocked()
		result := Result{
			SessionID: s.id,
			Score:     s.board.score,
			Moves:     s.board.moves,
			Duration:  s.completedAt.Sub(s.startedAt),
		}
		s.logger.Info("Game complete", "moves", result.Moves, "score", result.Score, "duration", result.Duration)
		s.emitLocked(NewPairMatchedEvent(state, first, id, now))
		s.emitLocked(NewSessionCompletedEvent(state, result, now))

	case OutcomeMismatched:
		s.logger.Debug("Pair mismatched", "first", first, "second", id, "moves", s.board.moves)
		s.scheduleResetLocked()
		s.emitLocked(NewPairMismatchedEvent(s.snapshotLocked(), first, id, s.delay, now))
	}

	return outcome, nil
}

// State returns a snapshot of the current game. Before the first NewGame it
// returns the zero State.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		return State{}
	}
	return s.snapshotLocked()
}

// Close stops any pending timer. Further calls to NewGame and SelectCard
// return ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.logger.Debug("Session closed")
}

func (s *Session) scheduleResetLocked() {
	s.attempt++
	generation, attempt := s.generation, s.attempt
	s.timer = s.clock.AfterFunc(s.delay, func() {
		s.resetMismatch(generation, attempt)
	})
}

// resetMismatch is the deferred half of a mismatch. It does nothing unless
// it still belongs to the current game and attempt.
func (s *Session) resetMismatch(generation, attempt uint64) {
	defer s.flush()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || generation != s.generation || attempt != s.attempt {
		s.logger.Debug("Dropping stale mismatch reset", "generation", generation, "attempt", attempt)
		return
	}
	s.timer = nil

	first, second := s.board.first, s.board.second
	if !s.board.hideMismatch() {
		return
	}
	s.logger.Debug("Cards hidden", "first", first, "second", second)
	s.emitLocked(NewCardsHiddenEvent(s.snapshotLocked(), first, second, s.clock.Now()))
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) snapshotLocked() State {
	state := s.board.snapshot()
	state.SessionID = s.id
	state.StartedAt = s.startedAt
	state.CompletedAt = s.completedAt
	return state
}

func (s *Session) emitLocked(event GameEvent) {
	s.queue = append(s.queue, event)
}

// flush delivers queued notifications. Only one goroutine drains at a time;
// events queued by a subscriber re-entering the session are picked up by the
// active drainer.
func (s *Session) flush() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.queue) > 0 {
		batch := s.queue
		s.queue = nil
		observers := slices.Clone(s.observers)
		s.mu.Unlock()

		for _, event := range batch {
			s.bus.Publish(event)
			if done, ok := event.(SessionCompletedEvent); ok {
				for _, fn := range observers {
					fn(done.Result)
				}
			}
		}

		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}
