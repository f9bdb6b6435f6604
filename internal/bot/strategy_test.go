package bot

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playOut drives a session to completion with a mock clock
func playOut(t *testing.T, strategy Strategy, pairs int, seed int64) game.State {
	t.Helper()
	clock := quartz.NewMock(t)
	s := game.NewSession(clock)
	require.NoError(t, s.NewGame(symbols.Default(), pairs, randutil.New(seed)))

	for step := 0; step < 10*pairs*pairs+100; step++ {
		view := s.State().Masked()
		if view.IsComplete() {
			return s.State()
		}
		id, ok := strategy.Choose(view)
		require.True(t, ok, "strategy found nothing to select in phase %s", view.Phase)

		out, err := s.SelectCard(id)
		require.NoError(t, err)
		require.NotEqual(t, game.OutcomeIgnored, out, "strategy chose an unselectable card %d", id)
		strategy.Observe(s.State().Masked())

		if out == game.OutcomeMismatched {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			clock.Advance(game.DefaultMismatchDelay).MustWait(ctx)
			cancel()
		}
	}
	t.Fatalf("%s did not finish", strategy.Name())
	return game.State{}
}

func TestNew(t *testing.T) {
	logger := log.New(io.Discard)
	for _, name := range Names() {
		s, err := New(name, randutil.New(1), logger)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	_, err := New("psychic", randutil.New(1), logger)
	assert.Error(t, err)
	assert.Equal(t, []string{StrategyMemory, StrategyRandom}, Names())
}

func TestRandBot_FinishesGames(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		st := playOut(t, NewRandBot(randutil.New(seed), log.New(io.Discard)), 4, seed)
		assert.True(t, st.IsComplete())
		assert.GreaterOrEqual(t, st.Moves, 4)
	}
}

func TestMemoryBot_FinishesWithinBound(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		bot := NewMemoryBot(randutil.New(seed), log.New(io.Discard))
		st := playOut(t, bot, 8, seed)
		assert.True(t, st.IsComplete())
		// Each card is revealed unseen at most once, so a perfect-memory
		// player needs at most 2*pairs-1 attempts
		assert.LessOrEqual(t, st.Moves, 2*8-1)
	}
}

func TestMemoryBot_CompletesKnownPair(t *testing.T) {
	bot := NewMemoryBot(randutil.New(1), log.New(io.Discard))

	// Cards 0 and 3 were seen during an earlier mismatch
	bot.Observe(game.State{Cards: []deck.Card{
		{ID: 0, Symbol: "A", FaceUp: true},
		{ID: 1},
		{ID: 2},
		{ID: 3, Symbol: "A", FaceUp: true},
	}, Phase: game.Evaluating})

	view := game.State{Cards: []deck.Card{
		{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3},
	}, Phase: game.AwaitingFirst}
	id, ok := bot.Choose(view)
	require.True(t, ok)
	assert.Contains(t, []int{0, 3}, id)

	first := id
	view.Cards[first] = deck.Card{ID: first, Symbol: "A", FaceUp: true}
	view.FirstSelection = &first
	view.Phase = game.AwaitingSecond
	id, ok = bot.Choose(view)
	require.True(t, ok)
	assert.Equal(t, 3-first, id)

	bot.Reset()
	assert.Empty(t, bot.seen)
}

func TestStrategies_NothingSelectable(t *testing.T) {
	view := game.State{Cards: []deck.Card{{ID: 0, FaceUp: true}, {ID: 1, FaceUp: true}}, Phase: game.Evaluating}
	for _, name := range Names() {
		s, err := New(name, randutil.New(1), log.New(io.Discard))
		require.NoError(t, err)
		_, ok := s.Choose(view)
		assert.False(t, ok, name)
	}
}
