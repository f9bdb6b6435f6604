package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lox/memorymatch/internal/server"
	"github.com/lox/memorymatch/internal/stats"
)

type ServeCmd struct {
	Address string `short:"a" help:"Listen address (default from config)"`
	Port    int    `short:"p" help:"Listen port (default from config)"`
	Pairs   int    `help:"Default pairs for new games (default from config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Address != "" {
		cfg.Server.Address = c.Address
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.Pairs != 0 {
		cfg.Game.Pairs = c.Pairs
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := g.logger(cfg, os.Stderr)
	pool, err := cfg.Pool()
	if err != nil {
		return err
	}

	collector := stats.NewCollector()
	srv := server.NewServer(cfg.Address(), logger,
		server.WithPool(pool),
		server.WithPairs(cfg.Game.Pairs),
		server.WithSessionOptions(cfg.SessionOptions(logger)...),
		server.WithCollector(collector),
	)

	ctx, cancel := signalContext(logger)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if snapshot := collector.Snapshot(); snapshot.Games > 0 {
		logger.Info("Served games", "summary", snapshot.Summary())
	}
	return nil
}
