// Package tui is the Bubble Tea front-end for a local memory game.
package tui

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/symbols"
)

// Config describes the games the TUI deals
type Config struct {
	Pool   symbols.Pool
	Pairs  int
	Seed   *int64
	Logger *log.Logger
}

// EventMsg wraps a session event for the Bubble Tea runtime
type EventMsg struct {
	Event game.GameEvent
}

// Model is the Bubble Tea model for one player at a terminal
type Model struct {
	session     *game.Session
	config      Config
	logger      *log.Logger
	events      chan game.GameEvent
	unsubscribe func()

	keys keyMap
	help help.Model

	state    game.State
	cursor   int
	status   string
	statusFn func(...string) string
	seed     int64
	games    int
	err      error

	width    int
	height   int
	quitting bool
}

// NewModel creates a TUI bound to session. Events published by the session,
// including timer-driven ones, are fed back into Update.
func NewModel(session *game.Session, config Config) *Model {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Pool == nil {
		config.Pool = symbols.Default()
	}

	m := &Model{
		session: session,
		config:  config,
		logger:  config.Logger.WithPrefix("tui"),
		events:  make(chan game.GameEvent, 64),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.unsubscribe = session.Events().Subscribe(game.EventSubscriberFunc(m.forward))
	return m
}

// forward runs on whichever goroutine published the event
func (m *Model) forward(ev game.GameEvent) {
	select {
	case m.events <- ev:
	default:
		// Update always re-reads the session, so a dropped event only
		// delays the redraw until the next one
		m.logger.Warn("Dropping event, UI is behind", "type", ev.EventType())
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return EventMsg{Event: <-m.events}
	}
}

// Init deals the first game
func (m *Model) Init() tea.Cmd {
	m.newGame()
	return m.waitForEvent()
}

// Close detaches the model from its session
func (m *Model) Close() {
	m.unsubscribe()
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case EventMsg:
		m.state = m.session.State().Masked()
		m.describe(msg.Event)
		return m, m.waitForEvent()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.NewGame):
			m.newGame()
		case key.Matches(msg, m.keys.Select):
			m.flip()
		case key.Matches(msg, m.keys.Up):
			m.move(0, -1)
		case key.Matches(msg, m.keys.Down):
			m.move(0, 1)
		case key.Matches(msg, m.keys.Left):
			m.move(-1, 0)
		case key.Matches(msg, m.keys.Right):
			m.move(1, 0)
		}
	}
	return m, nil
}

func (m *Model) newGame() {
	seed := m.config.Seed
	if seed != nil && m.games > 0 {
		// Replays of a seeded run get consecutive seeds
		next := *seed + int64(m.games)
		seed = &next
	}
	rng, used := randutil.FromSeed(seed)

	if err := m.session.NewGame(m.config.Pool, m.config.Pairs, rng); err != nil {
		m.setError(err)
		return
	}
	m.games++
	m.seed = used
	m.cursor = 0
	m.err = nil
	m.state = m.session.State().Masked()
	m.logger.Info("New game", "pairs", m.config.Pairs, "seed", used)
	m.setStatus(InfoStyle.Render, "Find all %d pairs", m.config.Pairs)
}

func (m *Model) flip() {
	outcome, err := m.session.SelectCard(m.cursor)
	if err != nil {
		m.setError(err)
		return
	}
	if outcome == game.OutcomeIgnored {
		m.refuse()
	}
	m.state = m.session.State().Masked()
}

// refuse explains why the card under the cursor was not flipped
func (m *Model) refuse() {
	card, _ := m.state.Card(m.cursor)
	switch {
	case card.Matched:
		m.setStatus(WarningStyle.Render, "That pair is already matched")
	case card.FaceUp:
		m.setStatus(WarningStyle.Render, "That card is already face up")
	default:
		m.setStatus(WarningStyle.Render, "That card can't be flipped right now")
	}
}

func (m *Model) describe(ev game.GameEvent) {
	switch ev := ev.(type) {
	case game.CardRevealedEvent:
		m.setStatus(StatusStyle.Render, "Pick a second card")
	case game.PairMatchedEvent:
		m.setStatus(SuccessStyle.Render, "Match!")
	case game.PairMismatchedEvent:
		m.setStatus(WarningStyle.Render, "No match")
	case game.CardsHiddenEvent:
		m.setStatus(StatusStyle.Render, "Try again")
	case game.SessionCompletedEvent:
		m.setStatus(SuccessStyle.Render, "All pairs found in %d moves, score %d. Press n for a new game.",
			ev.Result.Moves, ev.Result.Score)
	}
}

func (m *Model) setStatus(render func(...string) string, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusFn = render
}

func (m *Model) setError(err error) {
	m.err = err
	m.logger.Error("Game error", "error", err)
	switch {
	case errors.Is(err, game.ErrInvalidConfiguration):
		m.setStatus(ErrorStyle.Render, "Invalid configuration: %v", err)
	default:
		m.setStatus(ErrorStyle.Render, "%v", err)
	}
}

// columns lays the board out as close to square as possible
func (m *Model) columns() int {
	n := len(m.state.Cards)
	if n == 0 {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

func (m *Model) move(dx, dy int) {
	n := len(m.state.Cards)
	if n == 0 {
		return
	}
	cols := m.columns()
	x, y := m.cursor%cols, m.cursor/cols
	x += dx
	y += dy
	if x < 0 || x >= cols || y < 0 {
		return
	}
	if next := y*cols + x; next < n {
		m.cursor = next
	}
}

// Cursor returns the card id under the cursor
func (m *Model) Cursor() int {
	return m.cursor
}

// Err returns the last error reported by the session, if any
func (m *Model) Err() error {
	return m.err
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Memory Match"))
	b.WriteString("\n\n")

	if m.state.Started() {
		b.WriteString(m.renderBoard())
		b.WriteString("\n")
		b.WriteString(m.renderStats())
		b.WriteString("\n")
	}

	if m.status != "" {
		render := m.statusFn
		if render == nil {
			render = StatusStyle.Render
		}
		b.WriteString(render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderBoard() string {
	cols := m.columns()
	var rows []string
	for start := 0; start < len(m.state.Cards); start += cols {
		end := min(start+cols, len(m.state.Cards))
		cells := make([]string, 0, cols)
		for _, card := range m.state.Cards[start:end] {
			cells = append(cells, m.renderCard(card))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderCard(card deck.Card) string {
	var face string
	switch {
	case card.Matched:
		face = MatchedStyle.Render(string(card.Symbol))
	case card.FaceUp:
		face = FaceUpStyle.Render(string(card.Symbol))
	default:
		face = FaceDownStyle.Render("??")
	}

	style := CardStyle
	if card.ID == m.cursor {
		style = style.BorderForeground(CursorBorderColor).BorderStyle(lipgloss.ThickBorder())
	}
	return style.Render(face)
}

func (m *Model) renderStats() string {
	return StatusStyle.Render(fmt.Sprintf("Moves: %d  Score: %d  Pairs: %d/%d  Seed: %d",
		m.state.Moves, m.state.Score, m.state.Matches, m.state.Pairs, m.seed))
}
