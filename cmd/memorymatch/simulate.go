package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/memorymatch/internal/fileutil"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/simulator"
	"github.com/lox/memorymatch/internal/stats"
)

type SimulateCmd struct {
	Games    int           `short:"n" default:"1000" help:"Number of games to play"`
	Pairs    int           `short:"p" help:"Pairs per game (default from config)"`
	Strategy string        `default:"memory" enum:"memory,random" help:"Bot strategy (memory, random)"`
	Seed     *int64        `short:"s" help:"Base seed; game i uses seed+i (default from config or time)"`
	Workers  int           `short:"w" help:"Parallel workers (default GOMAXPROCS)"`
	Timeout  time.Duration `default:"10s" help:"Per-game timeout"`
	Quiet    bool          `short:"q" help:"Hide the progress bar"`
	Output   string        `short:"o" type:"path" help:"Write a JSON report to this file"`
	Moves    bool          `help:"Include per-game move counts in the JSON report"`
}

func (c *SimulateCmd) Run(g *Globals) error {
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

	logger := g.logger(cfg, os.Stderr)
	pool, err := cfg.Pool()
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if s := cfg.Seed(); s != nil {
		seed = *s
	}

	var progress *progressMonitor
	if !c.Quiet {
		progress = newProgressMonitor(os.Stderr)
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	sim := simulator.New(simulator.Config{
		Games:    c.Games,
		Pairs:    cfg.Game.Pairs,
		Strategy: c.Strategy,
		Seed:     seed,
		Workers:  c.Workers,
		Timeout:  c.Timeout,
		Pool:     pool,
		Logger:   logger,
		// The simulator runs without a mismatch delay, so only the reward
		// is taken from the configuration
		SessionOptions: []game.Option{game.WithMatchReward(*cfg.Game.MatchReward)},
		Progress:       progress.update,
	})

	start := time.Now()
	result, err := sim.Run(ctx)
	progress.finish()
	if err != nil {
		return err
	}

	printSummary(result, c.Strategy, seed, time.Since(start))

	if c.Output != "" {
		if err := fileutil.WriteJSONAtomic(c.Output, result.Report(c.Strategy, seed, c.Moves)); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Output)
	}
	return nil
}

// printSummary prints the results of a simulation run
func printSummary(s *stats.Statistics, strategy string, seed int64, elapsed time.Duration) {
	p05, p25, p75, p95 := s.Percentile(0.05), s.Percentile(0.25), s.Percentile(0.75), s.Percentile(0.95)
	low, high := s.ConfidenceInterval95()

	fmt.Printf("\n=== RESULTS: %s bot, %d pairs ===\n", strategy, s.TotalPairs/max(s.Games, 1))
	fmt.Printf("Games played: %d (base seed %d, %s)\n", s.Games, seed, elapsed.Round(time.Millisecond))
	fmt.Printf("\n=== MOVES ===\n")
	fmt.Printf("Mean: %.3f\n", s.Mean())
	fmt.Printf("Median: %.1f\n", s.Median())
	fmt.Printf("Std Dev: %.3f\n", s.StdDev())
	fmt.Printf("95%% CI: [%.3f, %.3f]\n", low, high)
	fmt.Printf("Min/Max: %d / %d\n", s.MinMoves, s.MaxMoves)
	fmt.Printf("Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n", p05, p25, p75, p95)
	fmt.Printf("\n=== SCORE ===\n")
	fmt.Printf("Mean score: %.2f\n", s.MeanScore())
	fmt.Printf("Perfect games: %d (%.1f%%)\n", s.PerfectGames, 100*float64(s.PerfectGames)/float64(s.Games))
	fmt.Printf("Efficiency: %.1f%%\n", 100*s.Efficiency())
}
