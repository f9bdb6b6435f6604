package game

import (
	"testing"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boardOf builds a face-down board from a symbol layout
func boardOf(layout ...string) *board {
	cards := make([]deck.Card, len(layout))
	for i, sym := range layout {
		cards[i] = deck.Card{ID: i, Symbol: symbols.Symbol(sym)}
	}
	return newBoard(cards, DefaultMatchReward)
}

func TestBoard_SelectCard(t *testing.T) {
	tests := []struct {
		name     string
		layout   []string
		picks    []int
		want     []Outcome
		phase    Phase
		moves    int
		score    int
		faceUp   []int
		selected *int
	}{
		{
			name:   "reveal",
			layout: []string{"A", "B", "A", "B"},
			picks:  []int{1},
			want:   []Outcome{OutcomeRevealed},
			phase:  AwaitingSecond,
			faceUp: []int{1},
		},
		{
			name:   "same card twice",
			layout: []string{"A", "B", "A", "B"},
			picks:  []int{1, 1},
			want:   []Outcome{OutcomeRevealed, OutcomeIgnored},
			phase:  AwaitingSecond,
			faceUp: []int{1},
		},
		{
			name:   "match",
			layout: []string{"A", "B", "A", "B"},
			picks:  []int{0, 2},
			want:   []Outcome{OutcomeRevealed, OutcomeMatched},
			phase:  AwaitingFirst,
			moves:  1,
			score:  10,
			faceUp: []int{0, 2},
		},
		{
			name:   "mismatch locks input",
			layout: []string{"A", "B", "A", "B"},
			picks:  []int{0, 1, 2},
			want:   []Outcome{OutcomeRevealed, OutcomeMismatched, OutcomeIgnored},
			phase:  Evaluating,
			moves:  1,
			faceUp: []int{0, 1},
		},
		{
			name:   "matched card ignored",
			layout: []string{"A", "B", "A", "B"},
			picks:  []int{0, 2, 0},
			want:   []Outcome{OutcomeRevealed, OutcomeMatched, OutcomeIgnored},
			phase:  AwaitingFirst,
			moves:  1,
			score:  10,
			faceUp: []int{0, 2},
		},
		{
			name:   "complete",
			layout: []string{"A", "B", "A", "B"},
			picks:  []int{0, 2, 3, 1, 1},
			want:   []Outcome{OutcomeRevealed, OutcomeMatched, OutcomeRevealed, OutcomeCompleted, OutcomeIgnored},
			phase:  Complete,
			moves:  2,
			score:  20,
			faceUp: []int{0, 1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardOf(tt.layout...)
			var got []Outcome
			for _, id := range tt.picks {
				got = append(got, b.selectCard(id))
			}

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.phase, b.phase)
			assert.Equal(t, tt.moves, b.moves)
			assert.Equal(t, tt.score, b.score)

			var up []int
			for _, c := range b.cards {
				if c.FaceUp {
					up = append(up, c.ID)
				}
			}
			assert.Equal(t, tt.faceUp, up)
		})
	}
}

func TestBoard_HideMismatch(t *testing.T) {
	b := boardOf("A", "B", "A", "B")
	assert.False(t, b.hideMismatch(), "nothing to hide")

	require.Equal(t, OutcomeRevealed, b.selectCard(0))
	require.Equal(t, OutcomeMismatched, b.selectCard(3))
	assert.True(t, b.hideMismatch())
	assert.False(t, b.hideMismatch(), "second hide is a no-op")

	assert.Equal(t, AwaitingFirst, b.phase)
	assert.Equal(t, 1, b.moves)
	for _, c := range b.cards {
		assert.False(t, c.FaceUp)
	}
}

func TestBoard_Snapshot(t *testing.T) {
	b := boardOf("A", "B", "A", "B")
	b.selectCard(0)
	b.selectCard(1)

	s := b.snapshot()
	require.NotNil(t, s.FirstSelection)
	require.NotNil(t, s.SecondSelection)
	assert.Equal(t, 0, *s.FirstSelection)
	assert.Equal(t, 1, *s.SecondSelection)
	assert.Equal(t, 2, s.Pairs)

	s.Cards[0].Symbol = "Z"
	*s.FirstSelection = 3
	assert.Equal(t, symbols.Symbol("A"), b.cards[0].Symbol)
	assert.Equal(t, 0, b.first)
}
