package game

import "fmt"

// Phase is the evaluator's position in the selection state machine
type Phase int

const (
	// AwaitingFirst means no unmatched card is face up
	AwaitingFirst Phase = iota
	// AwaitingSecond means one card has been flipped and waits for a partner
	AwaitingSecond
	// Evaluating means two unmatched cards are face up and input is locked
	Evaluating
	// Complete means every card has been matched
	Complete
)

var phaseNames = [...]string{
	AwaitingFirst:  "awaiting_first",
	AwaitingSecond: "awaiting_second",
	Evaluating:     "evaluating",
	Complete:       "complete",
}

// String returns the snake_case name of the phase
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Outcome describes what a single SelectCard call did
type Outcome int

const (
	// OutcomeIgnored means the selection was not actionable and nothing changed
	OutcomeIgnored Outcome = iota
	// OutcomeRevealed means the first card of a pair was flipped
	OutcomeRevealed
	// OutcomeMatched means the second card matched the first
	OutcomeMatched
	// OutcomeMismatched means the second card differed; a reset is scheduled
	OutcomeMismatched
	// OutcomeCompleted means the match finished the board
	OutcomeCompleted
)

var outcomeNames = [...]string{
	OutcomeIgnored:    "ignored",
	OutcomeRevealed:   "revealed",
	OutcomeMatched:    "matched",
	OutcomeMismatched: "mismatched",
	OutcomeCompleted:  "completed",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(text []byte) error {
	for i, name := range outcomeNames {
		if name == string(text) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}
