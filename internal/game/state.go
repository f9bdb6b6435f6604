package game

import (
	"time"

	"github.com/lox/memorymatch/internal/deck"
)

// State is a read-only snapshot of a session. Every snapshot owns its slices
// and pointers, so callers may keep or modify it without reaching the engine.
type State struct {
	SessionID       string      `json:"sessionId"`
	Cards           []deck.Card `json:"cards"`
	FirstSelection  *int        `json:"firstSelection,omitempty"`
	SecondSelection *int        `json:"secondSelection,omitempty"`
	Moves           int         `json:"moves"`
	Score           int         `json:"score"`
	Matches         int         `json:"matches"`
	Pairs           int         `json:"pairs"`
	Phase           Phase       `json:"phase"`
	StartedAt       time.Time   `json:"startedAt,omitzero"`
	CompletedAt     time.Time   `json:"completedAt,omitzero"`
}

// Result is delivered to completion observers
type Result struct {
	SessionID string        `json:"sessionId"`
	Score     int           `json:"score"`
	Moves     int           `json:"moves"`
	Duration  time.Duration `json:"duration"`
}

// Started reports whether the snapshot belongs to a game in progress or
// finished; the zero State has no cards.
func (s State) Started() bool {
	return len(s.Cards) > 0
}

// IsComplete reports whether every card has been matched
func (s State) IsComplete() bool {
	return s.Phase == Complete
}

// Card returns the card with the given id
func (s State) Card(id int) (deck.Card, bool) {
	if id < 0 || id >= len(s.Cards) {
		return deck.Card{}, false
	}
	return s.Cards[id], true
}

// Selectable returns the ids a player could flip right now. It is empty
// while a mismatch is on display and once the game is complete.
func (s State) Selectable() []int {
	if s.Phase == Evaluating || s.Phase == Complete {
		return nil
	}
	ids := make([]int, 0, len(s.Cards))
	for _, c := range s.Cards {
		if c.Selectable() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Clone returns a deep copy of the snapshot
func (s State) Clone() State {
	out := s
	if s.Cards != nil {
		out.Cards = make([]deck.Card, len(s.Cards))
		copy(out.Cards, s.Cards)
	}
	out.FirstSelection = cloneInt(s.FirstSelection)
	out.SecondSelection = cloneInt(s.SecondSelection)
	return out
}

// Masked returns a copy with the symbols of face-down cards blanked, for
// presentation layers that must not learn the board layout.
func (s State) Masked() State {
	out := s.Clone()
	for i := range out.Cards {
		if !out.Cards[i].FaceUp {
			out.Cards[i].Symbol = ""
		}
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
