package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/symbols"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T, pairs int, seed int64) (*Model, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	session := game.NewSession(clock)
	t.Cleanup(session.Close)

	m := NewModel(session, Config{
		Pairs:  pairs,
		Seed:   &seed,
		Logger: log.New(io.Discard),
	})
	t.Cleanup(m.Close)
	require.NotNil(t, m.Init())
	drain(m)
	return m, clock
}

// drain feeds every queued session event through Update
func drain(m *Model) {
	for {
		select {
		case ev := <-m.events:
			m.Update(EventMsg{Event: ev})
		default:
			return
		}
	}
}

// pick moves the cursor to id and flips it
func pick(t *testing.T, m *Model, id int) {
	t.Helper()
	for range len(m.state.Cards) {
		m.Update(tea.KeyMsg{Type: tea.KeyUp})
		m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	}
	cols := m.columns()
	for range id / cols {
		m.Update(keyRune('j'))
	}
	for range id % cols {
		m.Update(keyRune('l'))
	}
	require.Equal(t, id, m.Cursor())
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	drain(m)
}

func pairsOf(t *testing.T, pairs int, seed int64) ([]deck.Card, [][2]int) {
	t.Helper()
	cards, err := deck.Generate(symbols.Default(), pairs, randutil.New(seed))
	require.NoError(t, err)
	first := map[symbols.Symbol]int{}
	var out [][2]int
	for _, c := range cards {
		if i, ok := first[c.Symbol]; ok {
			out = append(out, [2]int{i, c.ID})
			continue
		}
		first[c.Symbol] = c.ID
	}
	return cards, out
}

func TestModel_InitialView(t *testing.T) {
	m, _ := newTestModel(t, 2, 3)

	view := m.View()
	assert.Contains(t, view, "Memory Match")
	assert.Equal(t, 4, strings.Count(view, "??"))
	assert.Contains(t, view, "Moves: 0  Score: 0  Pairs: 0/2  Seed: 3")
	assert.Contains(t, view, "Find all 2 pairs")
}

func TestModel_PlayGame(t *testing.T) {
	const seed = 11
	m, clock := newTestModel(t, 2, seed)
	cards, pairs := pairsOf(t, 2, seed)

	a, b := pairs[0][0], pairs[1][0]
	pick(t, m, a)
	assert.Contains(t, m.View(), "Pick a second card")
	assert.Contains(t, m.View(), string(cards[a].Symbol))

	pick(t, m, a)
	assert.Contains(t, m.View(), "That card is already face up")

	pick(t, m, b)
	view := m.View()
	assert.Contains(t, view, "No match")
	assert.Contains(t, view, string(cards[b].Symbol))
	assert.Equal(t, 2, strings.Count(view, "??"))

	// Flipping during the delay is refused
	pick(t, m, pairs[0][1])
	assert.Contains(t, m.View(), "can't be flipped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	clock.Advance(game.DefaultMismatchDelay).MustWait(ctx)
	drain(m)
	assert.Contains(t, m.View(), "Try again")
	assert.Equal(t, 4, strings.Count(m.View(), "??"))

	pick(t, m, pairs[0][0])
	pick(t, m, pairs[0][1])
	assert.Contains(t, m.View(), "Match!")

	pick(t, m, pairs[0][0])
	assert.Contains(t, m.View(), "That pair is already matched")

	pick(t, m, pairs[1][0])
	pick(t, m, pairs[1][1])
	view = m.View()
	assert.Contains(t, view, "All pairs found in 3 moves, score 20")
	assert.Contains(t, view, "Moves: 3  Score: 20  Pairs: 2/2")
	assert.Equal(t, 0, strings.Count(view, "??"))
}

func TestModel_NewGame(t *testing.T) {
	m, _ := newTestModel(t, 3, 5)
	first := m.state.SessionID

	pick(t, m, 0)
	m.Update(keyRune('n'))
	drain(m)

	assert.NotEqual(t, first, m.state.SessionID)
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, 6, strings.Count(m.View(), "??"))
	assert.Contains(t, m.View(), "Seed: 6", "seeded replays advance the seed")
}

func TestModel_InvalidConfiguration(t *testing.T) {
	session := game.NewSession(quartz.NewMock(t))
	defer session.Close()
	m := NewModel(session, Config{Pairs: 1})
	defer m.Close()

	m.Init()
	assert.ErrorIs(t, m.Err(), game.ErrInvalidConfiguration)
	assert.Contains(t, m.View(), "Invalid configuration")
	assert.NotContains(t, m.View(), "Moves:")
}

func TestModel_CursorBounds(t *testing.T) {
	m, _ := newTestModel(t, 8, 1) // 16 cards, 4 columns

	for range 10 {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	assert.Equal(t, 3, m.Cursor())
	for range 10 {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 15, m.Cursor())
	m.Update(keyRune('h'))
	m.Update(keyRune('k'))
	assert.Equal(t, 10, m.Cursor())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, 2, 1)

	_, cmd := m.Update(keyRune('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t, 2, 1)
	assert.Contains(t, m.View(), "new game")
	assert.NotContains(t, m.View(), "left")

	m.Update(keyRune('?'))
	assert.Contains(t, m.View(), "left")
}
