package game

import (
	"github.com/lox/memorymatch/internal/deck"
)

const noSelection = -1

// board is the authoritative game record. It is only touched with the
// owning session's lock held.
type board struct {
	cards   []deck.Card
	first   int
	second  int
	moves   int
	score   int
	matches int
	reward  int
	phase   Phase
}

func newBoard(cards []deck.Card, reward int) *board {
	return &board{
		cards:  cards,
		first:  noSelection,
		second: noSelection,
		reward: reward,
		phase:  AwaitingFirst,
	}
}

// selectCard applies one selection. id must be in range.
func (b *board) selectCard(id int) Outcome {
	if b.phase == Evaluating || b.phase == Complete {
		return OutcomeIgnored
	}

	card := &b.cards[id]
	if card.Matched || card.FaceUp {
		return OutcomeIgnored
	}
	card.FaceUp = true

	if b.first == noSelection {
		b.first = id
		b.phase = AwaitingSecond
		return OutcomeRevealed
	}

	b.second = id
	b.moves++
	b.phase = Evaluating

	first := &b.cards[b.first]
	if first.Symbol != card.Symbol {
		// Both stay face up until hideMismatch runs
		return OutcomeMismatched
	}

	first.Matched = true
	card.Matched = true
	b.score += b.reward
	b.matches++
	b.clearSelection()

	if b.allMatched() {
		b.phase = Complete
		return OutcomeCompleted
	}
	b.phase = AwaitingFirst
	return OutcomeMatched
}

// hideMismatch turns a displayed mismatch back face down. It reports false
// if there is no mismatch to hide.
func (b *board) hideMismatch() bool {
	if b.phase != Evaluating || b.first == noSelection || b.second == noSelection {
		return false
	}
	b.cards[b.first].FaceUp = false
	b.cards[b.second].FaceUp = false
	b.clearSelection()
	b.phase = AwaitingFirst
	return true
}

func (b *board) clearSelection() {
	b.first = noSelection
	b.second = noSelection
}

func (b *board) allMatched() bool {
	for _, c := range b.cards {
		if !c.Matched {
			return false
		}
	}
	return true
}

func (b *board) pairs() int {
	return len(b.cards) / 2
}

// snapshot copies the board into a State
func (b *board) snapshot() State {
	s := State{
		Cards:   make([]deck.Card, len(b.cards)),
		Moves:   b.moves,
		Score:   b.score,
		Matches: b.matches,
		Pairs:   b.pairs(),
		Phase:   b.phase,
	}
	copy(s.Cards, b.cards)
	if b.first != noSelection {
		first := b.first
		s.FirstSelection = &first
	}
	if b.second != noSelection {
		second := b.second
		s.SecondSelection = &second
	}
	return s
}
