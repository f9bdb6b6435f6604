package deck

import (
	"fmt"

	"github.com/lox/memorymatch/symbols"
)

// Card is a single memory card on the board
type Card struct {
	ID      int            `json:"id"`
	Symbol  symbols.Symbol `json:"symbol"`
	FaceUp  bool           `json:"faceUp"`
	Matched bool           `json:"matched"`
}

// NewCard creates a face-down, unmatched card
func NewCard(id int, sym symbols.Symbol) Card {
	return Card{ID: id, Symbol: sym}
}

// Selectable reports whether a player could flip this card
func (c Card) Selectable() bool {
	return !c.FaceUp && !c.Matched
}

// String returns a compact representation, e.g. "3:🍎*" for a matched card
func (c Card) String() string {
	switch {
	case c.Matched:
		return fmt.Sprintf("%d:%s*", c.ID, c.Symbol)
	case c.FaceUp:
		return fmt.Sprintf("%d:%s", c.ID, c.Symbol)
	default:
		return fmt.Sprintf("%d:??", c.ID)
	}
}
