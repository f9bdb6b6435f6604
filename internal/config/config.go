// Package config loads the memorymatch HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/symbols"
)

// DefaultFile is the configuration file read when none is given
const DefaultFile = "memorymatch.hcl"

const (
	defaultPairs   = 8
	defaultDelay   = "1s"
	defaultAddress = "localhost"
	defaultPort    = 8080
	defaultLevel   = "info"
)

// Config represents the complete configuration file
type Config struct {
	LogLevel string          `hcl:"log_level,optional"`
	Game     *GameSettings   `hcl:"game,block"`
	Server   *ServerSettings `hcl:"server,block"`
}

// GameSettings configures new sessions
type GameSettings struct {
	Pairs         int      `hcl:"pairs,optional"`
	MatchReward   *int     `hcl:"match_reward,optional"`
	MismatchDelay string   `hcl:"mismatch_delay,optional"`
	Symbols       []string `hcl:"symbols,optional"`
	Seed          *int64   `hcl:"seed,optional"`
}

// ServerSettings contains the listen address for `memorymatch serve`
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file is not an
// error and yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLevel
	}
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.Pairs == 0 {
		c.Game.Pairs = defaultPairs
	}
	if c.Game.MatchReward == nil {
		reward := game.DefaultMatchReward
		c.Game.MatchReward = &reward
	}
	if c.Game.MismatchDelay == "" {
		c.Game.MismatchDelay = defaultDelay
	}
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	pool, err := c.Pool()
	if err != nil {
		return err
	}
	if c.Game.Pairs < game.MinPairs || c.Game.Pairs > pool.Len() {
		return fmt.Errorf("game: pairs must be between %d and %d, got %d", game.MinPairs, pool.Len(), c.Game.Pairs)
	}
	if *c.Game.MatchReward < 0 {
		return fmt.Errorf("game: match_reward must not be negative, got %d", *c.Game.MatchReward)
	}
	if _, err := c.MismatchDelay(); err != nil {
		return err
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

// Level returns the parsed log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// MismatchDelay parses game.mismatch_delay
func (c *Config) MismatchDelay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Game.MismatchDelay)
	if err != nil {
		return 0, fmt.Errorf("game: invalid mismatch_delay %q: %w", c.Game.MismatchDelay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("game: mismatch_delay must not be negative, got %s", d)
	}
	return d, nil
}

// Pool returns the configured symbol pool, or the default pool when none is set
func (c *Config) Pool() (symbols.Pool, error) {
	if len(c.Game.Symbols) == 0 {
		return symbols.Default(), nil
	}
	pool := symbols.New(c.Game.Symbols...)
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return pool, nil
}

// Seed returns the configured seed, if any
func (c *Config) Seed() *int64 {
	return c.Game.Seed
}

// SessionOptions converts the game settings to session options. Call
// Validate first; an unparseable delay falls back to the default.
func (c *Config) SessionOptions(logger *log.Logger) []game.Option {
	delay, err := c.MismatchDelay()
	if err != nil {
		delay = game.DefaultMismatchDelay
	}
	return []game.Option{
		game.WithLogger(logger),
		game.WithMatchReward(*c.Game.MatchReward),
		game.WithMismatchDelay(delay),
	}
}

// Address returns the full server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
