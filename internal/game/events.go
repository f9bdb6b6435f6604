package game

import (
	"sync"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeSessionStarted   EventType = "session_started"
	EventTypeCardRevealed     EventType = "card_revealed"
	EventTypePairMatched      EventType = "pair_matched"
	EventTypePairMismatched   EventType = "pair_mismatched"
	EventTypeCardsHidden      EventType = "cards_hidden"
	EventTypeSessionCompleted EventType = "session_completed"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent is published after every state transition of a session
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
	SessionID() string
	// State is the snapshot taken right after the transition
	State() State
}

type eventBase struct {
	state     State
	timestamp time.Time
}

func (e eventBase) Timestamp() time.Time { return e.timestamp }
func (e eventBase) SessionID() string    { return e.state.SessionID }
func (e eventBase) State() State         { return e.state.Clone() }

func newEventBase(state State, at time.Time) eventBase {
	return eventBase{state: state, timestamp: at}
}

// SessionStartedEvent is published when NewGame deals a fresh board
type SessionStartedEvent struct {
	eventBase
	Pairs int
}

func (e SessionStartedEvent) EventType() EventType { return EventTypeSessionStarted }

// NewSessionStartedEvent creates a new session started event
func NewSessionStartedEvent(state State, at time.Time) SessionStartedEvent {
	return SessionStartedEvent{eventBase: newEventBase(state, at), Pairs: state.Pairs}
}

// CardRevealedEvent is published when the first card of an attempt is flipped
type CardRevealedEvent struct {
	eventBase
	CardID int
}

func (e CardRevealedEvent) EventType() EventType { return EventTypeCardRevealed }

// NewCardRevealedEvent creates a new card revealed event
func NewCardRevealedEvent(state State, cardID int, at time.Time) CardRevealedEvent {
	return CardRevealedEvent{eventBase: newEventBase(state, at), CardID: cardID}
}

// PairMatchedEvent is published when two cards match
type PairMatchedEvent struct {
	eventBase
	First  int
	Second int
}

func (e PairMatchedEvent) EventType() EventType { return EventTypePairMatched }

// NewPairMatchedEvent creates a new pair matched event
func NewPairMatchedEvent(state State, first, second int, at time.Time) PairMatchedEvent {
	return PairMatchedEvent{eventBase: newEventBase(state, at), First: first, Second: second}
}

// PairMismatchedEvent is published when two cards differ. The cards stay
// face up until the matching CardsHiddenEvent.
type PairMismatchedEvent struct {
	eventBase
	First      int
	Second     int
	ResetAfter time.Duration
}

func (e PairMismatchedEvent) EventType() EventType { return EventTypePairMismatched }

// NewPairMismatchedEvent creates a new pair mismatched event
func NewPairMismatchedEvent(state State, first, second int, resetAfter time.Duration, at time.Time) PairMismatchedEvent {
	return PairMismatchedEvent{eventBase: newEventBase(state, at), First: first, Second: second, ResetAfter: resetAfter}
}

// CardsHiddenEvent is published when a mismatch is flipped back face down
type CardsHiddenEvent struct {
	eventBase
	First  int
	Second int
}

func (e CardsHiddenEvent) EventType() EventType { return EventTypeCardsHidden }

// NewCardsHiddenEvent creates a new cards hidden event
func NewCardsHiddenEvent(state State, first, second int, at time.Time) CardsHiddenEvent {
	return CardsHiddenEvent{eventBase: newEventBase(state, at), First: first, Second: second}
}

// SessionCompletedEvent is published once per session when the last pair
// is matched
type SessionCompletedEvent struct {
	eventBase
	Result Result
}

func (e SessionCompletedEvent) EventType() EventType { return EventTypeSessionCompleted }

// NewSessionCompletedEvent creates a new session completed event
func NewSessionCompletedEvent(state State, result Result, at time.Time) SessionCompletedEvent {
	return SessionCompletedEvent{eventBase: newEventBase(state, at), Result: result}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	// Subscribe registers a subscriber and returns a function that removes it
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Publish
// delivers synchronously in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers map[int]EventSubscriber
	order       []int
	nextID      int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make(map[int]EventSubscriber),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { bus.unsubscribe(id) })
	}
}

func (bus *SimpleEventBus) unsubscribe(id int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	delete(bus.subscribers, id)
	for i, sid := range bus.order {
		if sid == id {
			bus.order = append(bus.order[:i], bus.order[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, sub := range subs {
		sub.OnEvent(event)
	}
}
