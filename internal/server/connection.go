package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/randutil"
	"github.com/lox/memorymatch/symbols"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection represents a WebSocket connection to a client and the game
// session it drives
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
	session     *game.Session
	unsubscribe func()
	pool        symbols.Pool
	pairs       int
}

// NewConnection creates a new connection wrapper. Every event of session is
// pushed to the client.
func NewConnection(conn *websocket.Conn, logger *log.Logger, session *game.Session, pool symbols.Pool, pairs int) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Connection{
		conn:    conn,
		send:    make(chan *Message, 256),
		logger:  logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
		session: session,
		pool:    pool,
		pairs:   pairs,
	}
	c.unsubscribe = session.Events().Subscribe(game.EventSubscriberFunc(c.onEvent))
	return c
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has been closed
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection and its session
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.unsubscribe()
		c.session.Close()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.sendError("", ErrCodeBadRequest, "Malformed message")
			continue
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

	switch msg.Type {
	case MessageTypeNewGame:
		var data NewGameData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError(msg.RequestID, ErrCodeBadRequest, "Failed to parse new game data")
				return
			}
		}
		c.handleNewGame(msg.RequestID, data)

	case MessageTypeSelectCard:
		var data SelectCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.ID == nil {
			c.sendError(msg.RequestID, ErrCodeBadRequest, "Failed to parse select card data")
			return
		}
		c.handleSelectCard(msg.RequestID, *data.ID)

	case MessageTypeGetState:
		c.sendState(msg.RequestID, StateData{State: c.session.State().Masked()})

	default:
		c.sendError(msg.RequestID, ErrCodeBadRequest, "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleNewGame(requestID string, data NewGameData) {
	pairs := c.pairs
	if data.Pairs != nil {
		pairs = *data.Pairs
	}

	rng, seed := randutil.FromSeed(data.Seed)

	c.logger.Info("New game request", "pairs", pairs, "seed", seed)
	if err := c.session.NewGame(c.pool, pairs, rng); err != nil {
		c.sendError(requestID, errorCode(err), err.Error())
	}
	// On success the session_started event carries the new board
}

func (c *Connection) handleSelectCard(requestID string, id int) {
	outcome, err := c.session.SelectCard(id)
	if err != nil {
		c.sendError(requestID, errorCode(err), err.Error())
		return
	}
	if outcome == game.OutcomeIgnored {
		// No event is published for ignored selections, so answer directly
		c.sendState(requestID, StateData{
			Outcome: outcome.String(),
			State:   c.session.State().Masked(),
		})
	}
}

// onEvent forwards session events to the client. It may run on the
// session's timer goroutine.
func (c *Connection) onEvent(ev game.GameEvent) {
	c.sendState("", StateDataFromEvent(ev))

	if done, ok := ev.(game.SessionCompletedEvent); ok {
		msg, err := NewMessage(MessageTypeGameComplete, GameCompleteDataFromResult(done.Result))
		if err != nil {
			c.logger.Error("Failed to create game complete message", "error", err)
			return
		}
		_ = c.SendMessage(msg) // Ignore send errors, the client may be gone
	}
}

func (c *Connection) sendState(requestID string, data StateData) {
	msg, err := NewMessage(MessageTypeState, data)
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	msg.RequestID = requestID
	if err := c.SendMessage(msg); err != nil {
		c.logger.Debug("Dropped state message", "error", err)
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	errorMsg.RequestID = requestID

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}
