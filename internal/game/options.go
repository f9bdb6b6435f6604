package game

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/memorymatch/internal/gameid"
)

const (
	// DefaultMatchReward is the score added for each matched pair
	DefaultMatchReward = 10
	// DefaultMismatchDelay is how long a mismatched pair stays visible
	DefaultMismatchDelay = time.Second
	// MinPairs is the smallest playable board (four cards)
	MinPairs = 2
)

// Option configures a Session during creation.
type Option func(*sessionConfig)

type sessionConfig struct {
	logger *log.Logger
	bus    EventBus
	ids    *gameid.Generator
	reward int
	delay  time.Duration
}

func defaultSessionConfig() *sessionConfig {
	return &sessionConfig{
		logger: log.New(io.Discard),
		reward: DefaultMatchReward,
		delay:  DefaultMismatchDelay,
	}
}

// WithLogger sets the logger used for session diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEventBus publishes session events to an existing bus
func WithEventBus(bus EventBus) Option {
	return func(c *sessionConfig) {
		c.bus = bus
	}
}

// WithIDGenerator sets the generator used for session IDs
func WithIDGenerator(ids *gameid.Generator) Option {
	return func(c *sessionConfig) {
		c.ids = ids
	}
}

// WithMatchReward sets the score added per matched pair. Negative values
// are treated as zero so the score can never decrease.
func WithMatchReward(reward int) Option {
	return func(c *sessionConfig) {
		c.reward = max(reward, 0)
	}
}

// WithMismatchDelay sets how long mismatched cards stay face up
func WithMismatchDelay(d time.Duration) Option {
	return func(c *sessionConfig) {
		c.delay = max(d, 0)
	}
}
