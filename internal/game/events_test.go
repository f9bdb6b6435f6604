package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SubscribeUnsubscribe(t *testing.T) {
	bus := NewEventBus()

	var first, second []EventType
	unsubFirst := bus.Subscribe(EventSubscriberFunc(func(e GameEvent) { first = append(first, e.EventType()) }))
	bus.Subscribe(EventSubscriberFunc(func(e GameEvent) { second = append(second, e.EventType()) }))

	state := State{SessionID: "abc", Pairs: 2}
	bus.Publish(NewSessionStartedEvent(state, time.Now()))
	unsubFirst()
	unsubFirst()
	bus.Publish(NewCardRevealedEvent(state, 1, time.Now()))

	assert.Equal(t, []EventType{EventTypeSessionStarted}, first)
	assert.Equal(t, []EventType{EventTypeSessionStarted, EventTypeCardRevealed}, second)
}

func TestEvents_CarryIsolatedSnapshot(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	state := State{SessionID: "s1", Cards: []deck.Card{deck.NewCard(0, "A")}}
	e := NewPairMismatchedEvent(state, 0, 1, time.Second, at)

	assert.Equal(t, EventTypePairMismatched, e.EventType())
	assert.Equal(t, "s1", e.SessionID())
	assert.Equal(t, at, e.Timestamp())
	assert.Equal(t, time.Second, e.ResetAfter)

	snap := e.State()
	snap.Cards[0].FaceUp = true
	assert.False(t, e.State().Cards[0].FaceUp)

	done := NewSessionCompletedEvent(state, Result{Score: 20, Moves: 3}, at)
	assert.Equal(t, EventTypeSessionCompleted, done.EventType())
	assert.Equal(t, 3, done.Result.Moves)
}

func TestPhaseText(t *testing.T) {
	for _, p := range []Phase{AwaitingFirst, AwaitingSecond, Evaluating, Complete} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var back Phase
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, p, back)
	}

	assert.Equal(t, "evaluating", Evaluating.String())
	assert.Equal(t, "phase(9)", Phase(9).String())

	var p Phase
	assert.Error(t, p.UnmarshalText([]byte("bogus")))
}

func TestOutcomeText(t *testing.T) {
	var o Outcome
	require.NoError(t, o.UnmarshalText([]byte("mismatched")))
	assert.Equal(t, OutcomeMismatched, o)
	assert.Equal(t, "ignored", OutcomeIgnored.String())
	assert.Error(t, o.UnmarshalText([]byte("nope")))
}

func TestStateJSONAndMasking(t *testing.T) {
	first := 1
	s := State{
		SessionID: "s1",
		Cards: []deck.Card{
			{ID: 0, Symbol: "A"},
			{ID: 1, Symbol: "B", FaceUp: true},
			{ID: 2, Symbol: "A", FaceUp: true, Matched: true},
			{ID: 3, Symbol: "B"},
		},
		FirstSelection: &first,
		Phase:          AwaitingSecond,
	}

	masked := s.Masked()
	assert.Equal(t, "", string(masked.Cards[0].Symbol))
	assert.Equal(t, "B", string(masked.Cards[1].Symbol))
	assert.Equal(t, "A", string(masked.Cards[2].Symbol))
	assert.Equal(t, "A", string(s.Cards[0].Symbol), "masking must not touch the original")

	assert.Equal(t, []int{0, 3}, s.Selectable())
	s.Phase = Evaluating
	assert.Empty(t, s.Selectable())

	data, err := json.Marshal(masked)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "awaiting_second", raw["phase"])
	assert.EqualValues(t, 1, raw["firstSelection"])
	assert.NotContains(t, raw, "secondSelection")
	assert.NotContains(t, raw, "completedAt")

	c, ok := s.Card(2)
	assert.True(t, ok)
	assert.True(t, c.Matched)
	_, ok = s.Card(4)
	assert.False(t, ok)
}
