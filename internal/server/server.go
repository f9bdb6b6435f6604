// Package server exposes memory game sessions over WebSocket. Every
// connection owns exactly one game session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/stats"
	"github.com/lox/memorymatch/symbols"
)

// DefaultPairs is used for new_game requests that do not specify pairs
const DefaultPairs = 8

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock handed to every session
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithPool sets the symbol pool new games draw from
func WithPool(pool symbols.Pool) Option {
	return func(s *Server) { s.pool = pool }
}

// WithPairs sets the default number of pairs per game
func WithPairs(pairs int) Option {
	return func(s *Server) { s.pairs = pairs }
}

// WithSessionOptions are applied to every session the server creates
func WithSessionOptions(opts ...game.Option) Option {
	return func(s *Server) { s.sessionOpts = append(s.sessionOpts, opts...) }
}

// WithCollector records completed games from every connection
func WithCollector(c *stats.Collector) Option {
	return func(s *Server) { s.collector = c }
}

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	runOnce     sync.Once
	httpServer  *http.Server

	clock       quartz.Clock
	pool        symbols.Pool
	pairs       int
	sessionOpts []game.Option
	collector   *stats.Collector
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// Browser clients are served from anywhere during development
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		clock:       quartz.NewReal(),
		pool:        symbols.Default(),
		pairs:       DefaultPairs,
		collector:   stats.NewCollector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving /ws, /health and /stats
func (s *Server) Handler() http.Handler {
	s.runOnce.Do(func() { go s.run() })

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Start starts the WebSocket server and blocks until it stops
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr, "pairs", s.pairs)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and closes the open ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpServer
	s.mu.RUnlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	return errors.Join(err, s.Stop())
}

// Stop closes all connections
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return nil
}

// Stats returns the aggregate of every completed game
func (s *Server) Stats() stats.Statistics {
	return s.collector.Snapshot()
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close() // Ignore close errors during unregistration
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	opts := append([]game.Option{game.WithLogger(s.logger)}, s.sessionOpts...)
	session := game.NewSession(s.clock, opts...)
	client := NewConnection(conn, s.logger, session, s.pool, s.pairs)
	detach := s.collector.Attach(session.Events())

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		detach()
		_ = client.Close()
		return
	}
	client.Start()

	// Connection cleanup is handled by the connection itself
	go func() {
		<-client.Done()
		detach()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// handleStats reports completed-game statistics as plain text
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snapshot := s.collector.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "Connected clients: %d\n", s.ConnectionCount())
	if snapshot.Games == 0 {
		_, _ = fmt.Fprintln(w, "Completed games: 0")
		return
	}
	_, _ = fmt.Fprintf(w, "Completed games: %d\n%s\n", snapshot.Games, snapshot.Summary())
	if last, ok := s.collector.Last(); ok {
		_, _ = fmt.Fprintf(w, "Last game: %s, %d pairs in %d moves, score %d\n", last.SessionID, last.Pairs, last.Moves, last.Score)
	}
}
