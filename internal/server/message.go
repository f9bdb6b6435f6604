package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/lox/memorymatch/internal/game"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeNewGame    MessageType = "new_game"
	MessageTypeSelectCard MessageType = "select_card"
	MessageTypeGetState   MessageType = "get_state"

	// Server to client messages
	MessageTypeState        MessageType = "state"
	MessageTypeGameComplete MessageType = "game_complete"
	MessageTypeError        MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Error codes carried by error messages
const (
	ErrCodeInvalidConfiguration = "invalid_configuration"
	ErrCodeInvalidSelection     = "invalid_selection"
	ErrCodeBadRequest           = "bad_request"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

// NewGameData starts a new game. Omitted fields use the server defaults; a
// seed makes the layout reproducible.
type NewGameData struct {
	Pairs *int   `json:"pairs,omitempty"`
	Seed  *int64 `json:"seed,omitempty"`
}

type SelectCardData struct {
	ID *int `json:"id"`
}

// Server → Client Messages

// StateData is a masked snapshot. Event names the engine event that caused
// the push and is empty for get_state replies. Outcome is set when the
// snapshot answers a selection.
type StateData struct {
	Event   game.EventType `json:"event,omitempty"`
	Outcome string         `json:"outcome,omitempty"`
	State   game.State     `json:"state"`
}

type GameCompleteData struct {
	SessionID  string `json:"sessionId"`
	Score      int    `json:"score"`
	Moves      int    `json:"moves"`
	DurationMs int64  `json:"durationMs"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StateDataFromEvent converts an engine event into the state push sent to
// the client.
func StateDataFromEvent(ev game.GameEvent) StateData {
	data := StateData{
		Event: ev.EventType(),
		State: ev.State().Masked(),
	}
	switch ev.EventType() {
	case game.EventTypeCardRevealed:
		data.Outcome = game.OutcomeRevealed.String()
	case game.EventTypePairMatched:
		data.Outcome = game.OutcomeMatched.String()
		if data.State.IsComplete() {
			data.Outcome = game.OutcomeCompleted.String()
		}
	case game.EventTypePairMismatched:
		data.Outcome = game.OutcomeMismatched.String()
	}
	return data
}

// GameCompleteDataFromResult converts a completion result
func GameCompleteDataFromResult(r game.Result) GameCompleteData {
	return GameCompleteData{
		SessionID:  r.SessionID,
		Score:      r.Score,
		Moves:      r.Moves,
		DurationMs: r.Duration.Milliseconds(),
	}
}

// errorCode maps engine errors to protocol error codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInvalidConfiguration):
		return ErrCodeInvalidConfiguration
	case errors.Is(err, game.ErrInvalidSelection):
		return ErrCodeInvalidSelection
	default:
		return ErrCodeBadRequest
	}
}
