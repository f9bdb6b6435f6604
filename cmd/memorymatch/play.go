package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/tui"
)

type PlayCmd struct {
	Pairs   int    `short:"p" help:"Number of pairs (default from config)"`
	Seed    *int64 `short:"s" help:"Seed for reproducible layouts"`
	LogFile string `default:"memorymatch.log" help:"Write logs here while the TUI owns the terminal (empty to discard)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Pairs != 0 {
		cfg.Game.Pairs = c.Pairs
	}
	if c.Seed != nil {
		cfg.Game.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logFile, err := openLogFile(c.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := g.logger(cfg, logFile)

	pool, err := cfg.Pool()
	if err != nil {
		return err
	}

	session := game.NewSession(nil, cfg.SessionOptions(logger)...)
	defer session.Close()
	session.OnComplete(func(r game.Result) {
		logger.Info("Game finished", "session", r.SessionID, "moves", r.Moves, "score", r.Score, "duration", r.Duration)
	})

	model := tui.NewModel(session, tui.Config{
		Pool:   pool,
		Pairs:  cfg.Game.Pairs,
		Seed:   cfg.Seed(),
		Logger: logger,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
